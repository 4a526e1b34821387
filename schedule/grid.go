package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/utils"
)

// DefaultTolerance is the largest distance, in steps, between a date and its lattice step.
const DefaultTolerance = 0.5

// Grid is the lattice time axis anchored at a valuation date.
type Grid struct {
	Valuation time.Time
	Dt        float64
	Steps     int
	// DayCount measures year fractions from Valuation; ACT/365F when empty.
	DayCount string
	// Tolerance bounds |yearFraction/dt - step|; DefaultTolerance when zero.
	Tolerance float64
}

// NewGrid returns the grid of a lattice with params p valued on valuation.
func NewGrid(valuation time.Time, p lattice.Params, dayCount string) Grid {
	return Grid{
		Valuation: valuation,
		Dt:        p.Dt(),
		Steps:     p.N,
		DayCount:  dayCount,
	}
}

// Time is the year fraction of a step.
func (g Grid) Time(step int) float64 {
	return float64(step) * g.Dt
}

// StepOf rounds the year fraction of d to the nearest step.
func (g Grid) StepOf(d time.Time) (int, error) {
	if g.Dt <= 0 || g.Steps <= 0 {
		return 0, fmt.Errorf("StepOf: grid dt=%v steps=%d: %w", g.Dt, g.Steps, lattice.ErrInvalidParameters)
	}
	if d.Before(g.Valuation) {
		return 0, fmt.Errorf("StepOf: %s before valuation %s: %w",
			d.Format(utils.DateLayout), g.Valuation.Format(utils.DateLayout), lattice.ErrScheduleMismatch)
	}
	x := utils.YearFraction(g.Valuation, d, g.DayCount) / g.Dt
	step := int(math.Round(x))
	tol := g.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if math.Abs(x-float64(step)) > tol {
		return 0, fmt.Errorf("StepOf: %s is %.4f steps from the grid: %w", d.Format(utils.DateLayout), x, lattice.ErrScheduleMismatch)
	}
	if step > g.Steps {
		return 0, fmt.Errorf("StepOf: %s maps to step %d beyond horizon %d: %w",
			d.Format(utils.DateLayout), step, g.Steps, lattice.ErrScheduleMismatch)
	}
	return step, nil
}

// Map converts dates into a validated schedule. Two dates landing on the same step are an error.
func (g Grid) Map(dates []time.Time) (Schedule, error) {
	s := make(Schedule, 0, len(dates))
	for _, d := range dates {
		step, err := g.StepOf(d)
		if err != nil {
			return nil, fmt.Errorf("Map: %w", err)
		}
		s = append(s, Point{Date: d, Step: step})
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("Map: %w", err)
	}
	return s, nil
}
