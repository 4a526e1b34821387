package lattice

import "fmt"

// Branching classifies how a state fans out to the next step.
type Branching int

const (
	// Central nodes go to j-1, j, j+1.
	Central Branching = iota
	// UpSnap nodes (j <= -jmax) go to j, j+1, j+2.
	UpSnap
	// DownSnap nodes (j >= jmax) go to j-2, j-1, j.
	DownSnap
)

func (b Branching) String() string {
	switch b {
	case Central:
		return "central"
	case UpSnap:
		return "up-snap"
	case DownSnap:
		return "down-snap"
	default:
		return fmt.Sprintf("Branching(%d)", int(b))
	}
}

// Geometry holds the step-independent branching structure of a Hull-White trinomial tree.
// It is immutable after NewGeometry and safe for concurrent use.
type Geometry struct {
	params Params
	dt     float64
	dR     float64
	jmax   int
	span   int          // states covered: [-span, span]
	probs  [][3]float64 // probs[j+span] = {pDown, pMid, pUp} for the lowest, middle, highest child
}

// NewGeometry validates p and precomputes the transition probabilities for every state in
// [-N-1, N+1].
func NewGeometry(p Params) (*Geometry, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewGeometry: %w", err)
	}
	g := &Geometry{
		params: p,
		dt:     p.Dt(),
		dR:     p.DR(),
		jmax:   p.JMax(),
		span:   p.N + 1,
	}
	g.probs = make([][3]float64, 2*g.span+1)

	a := p.A
	a2dt2 := a * a * g.dt * g.dt
	for j := -g.span; j <= g.span; j++ {
		jf := float64(j)
		q := a2dt2 * jf * jf // a^2 j^2 dt^2
		l := a * jf * g.dt   // a j dt
		var pd, pm, pu float64
		switch g.Branching(j) {
		case Central:
			pu = 1.0/6 + 0.5*(q-l)
			pm = 2.0/3 - q
			pd = 1.0/6 + 0.5*(q+l)
		case UpSnap:
			pu = 1.0/6 + 0.5*(q+l)
			pm = -1.0/3 - q - 2*l
			pd = 7.0/6 + 0.5*(q+3*l)
		case DownSnap:
			pu = 7.0/6 + 0.5*(q-3*l)
			pm = -1.0/3 - q + 2*l
			pd = 1.0/6 + 0.5*(q-l)
		}
		g.probs[j+g.span] = [3]float64{pd, pm, pu}
	}
	return g, nil
}

// Params returns the parameters the geometry was built from.
func (g *Geometry) Params() Params { return g.params }

// Dt is the step length.
func (g *Geometry) Dt() float64 { return g.dt }

// DR is the rate spacing between adjacent states.
func (g *Geometry) DR() float64 { return g.dR }

// JMax is the branching switch level.
func (g *Geometry) JMax() int { return g.jmax }

// Branching returns the branching class of state j.
func (g *Geometry) Branching(j int) Branching {
	switch {
	case j <= -g.jmax:
		return UpSnap
	case j >= g.jmax:
		return DownSnap
	default:
		return Central
	}
}

// Children returns the lowest child state of j and the probabilities of moving to
// lo, lo+1 and lo+2. States outside [-N-1, N+1] have no children (zero probabilities).
func (g *Geometry) Children(j int) (lo int, p [3]float64) {
	if j < -g.span || j > g.span {
		return j, [3]float64{}
	}
	switch g.Branching(j) {
	case UpSnap:
		lo = j
	case DownSnap:
		lo = j - 2
	default:
		lo = j - 1
	}
	return lo, g.probs[j+g.span]
}

// Prob is the one-step transition probability from state `from` to state `to`.
// It is zero unless `to` is one of the three children of `from`.
func (g *Geometry) Prob(from, to int) float64 {
	lo, p := g.Children(from)
	d := to - lo
	if d < 0 || d > 2 {
		return 0
	}
	return p[d]
}
