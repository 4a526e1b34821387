package lattice

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ExerciseRule says how continuation and exercise values combine at an exercise step.
type ExerciseRule int

const (
	// NoExercise ignores exercise steps.
	NoExercise ExerciseRule = iota
	// HolderOptimal takes max(continuation, exercise): the holder owns the option.
	HolderOptimal
	// IssuerOptimal takes min(continuation, exercise): the issuer owns the option.
	IssuerOptimal
)

func (r ExerciseRule) String() string {
	switch r {
	case NoExercise:
		return "none"
	case HolderOptimal:
		return "holder"
	case IssuerOptimal:
		return "issuer"
	default:
		return fmt.Sprintf("ExerciseRule(%d)", int(r))
	}
}

// Induction configures one backward-induction pass.
type Induction struct {
	// Final is the last step M of the instrument tree, 0 <= M <= N.
	Final int
	// Terminal gives the value at (Final, j).
	Terminal func(j int) float64
	// Cashflows are added to the node value at their step. A cashflow at Final is added to
	// the terminal value.
	Cashflows map[int]float64
	// ExerciseSteps are the steps at which ExerciseValue is compared with continuation.
	ExerciseSteps []int
	// ExerciseValue is the immediate exercise value at node (i, j).
	ExerciseValue func(i, j int) float64
	// Rule combines continuation and exercise values.
	Rule ExerciseRule
	// Spread is a continuously compounded spread added to every short rate when discounting.
	Spread float64
}

// Tree holds instrument values for steps 0..Final.
type Tree struct {
	final  int
	values []float64
}

// Final is the last step of the tree.
func (t *Tree) Final() int { return t.final }

// Root is the value at node (0, 0).
func (t *Tree) Root() float64 { return t.values[0] }

// At returns the value at node (i, j), or NaN outside the tree.
func (t *Tree) At(i, j int) float64 {
	if i < 0 || i > t.final || j < -i || j > i {
		return math.NaN()
	}
	return t.values[node(i, j)]
}

// Level returns a copy of the values at step i ordered from j=-i to j=i.
func (t *Tree) Level(i int) []float64 {
	if i < 0 || i > t.final {
		return nil
	}
	return append([]float64(nil), t.values[node(i, -i):node(i, i)+1]...)
}

func (ind Induction) validate(n int) error {
	if ind.Terminal == nil {
		return errors.New("nil terminal condition")
	}
	if ind.Final < 0 || ind.Final > n {
		return fmt.Errorf("final step %d outside [0, %d]: %w", ind.Final, n, ErrScheduleMismatch)
	}
	steps := make([]int, 0, len(ind.Cashflows))
	for s := range ind.Cashflows {
		steps = append(steps, s)
	}
	sort.Ints(steps)
	for _, s := range steps {
		if s < 0 || s > ind.Final {
			return fmt.Errorf("cashflow step %d outside [0, %d]: %w", s, ind.Final, ErrScheduleMismatch)
		}
	}
	if len(ind.ExerciseSteps) > 0 {
		if ind.Rule == NoExercise {
			return errors.New("exercise steps given without an exercise rule")
		}
		if ind.ExerciseValue == nil {
			return errors.New("exercise steps given without an exercise value")
		}
	}
	for _, s := range ind.ExerciseSteps {
		if s < 0 || s > ind.Final {
			return fmt.Errorf("exercise step %d outside [0, %d]: %w", s, ind.Final, ErrScheduleMismatch)
		}
	}
	return nil
}

// Induct values an instrument by backward induction from ind.Final to the root:
//
//	V(i,j) = D(i,j) * sum_k p(j,k) V(i+1,k) + cashflow(i)
//
// followed, at exercise steps, by max or min against the exercise value.
func (l *Lattice) Induct(ind Induction) (*Tree, error) {
	cal, err := l.calibrated()
	if err != nil {
		return nil, fmt.Errorf("Induct: %w", err)
	}
	if err := ind.validate(l.geo.params.N); err != nil {
		return nil, fmt.Errorf("Induct: %w", err)
	}

	exercise := make(map[int]bool, len(ind.ExerciseSteps))
	if ind.Rule != NoExercise {
		for _, s := range ind.ExerciseSteps {
			exercise[s] = true
		}
	}
	combine := func(i, j int, cont float64) float64 {
		if !exercise[i] {
			return cont
		}
		ex := ind.ExerciseValue(i, j)
		if ind.Rule == HolderOptimal {
			return math.Max(cont, ex)
		}
		return math.Min(cont, ex)
	}

	m := ind.Final
	tree := &Tree{final: m, values: make([]float64, (m+1)*(m+1))}
	spread := math.Exp(-ind.Spread * l.geo.dt)

	for j := -m; j <= m; j++ {
		tree.values[node(m, j)] = combine(m, j, ind.Terminal(j)+ind.Cashflows[m])
	}

	for i := m - 1; i >= 0; i-- {
		cf := ind.Cashflows[i]
		err := l.forEachState(i, func(j int) error {
			lo, p := l.geo.Children(j)
			expected := 0.0
			for d := 0; d < 3; d++ {
				k := lo + d
				if k < -(i+1) || k > i+1 {
					continue
				}
				expected += p[d] * tree.values[node(i+1, k)]
			}
			cont := cal.discounts[node(i, j)]*spread*expected + cf
			tree.values[node(i, j)] = combine(i, j, cont)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("Induct: step %d: %w", i, err)
		}
	}
	return tree, nil
}
