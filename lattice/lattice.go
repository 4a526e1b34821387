// Package lattice implements the Hull-White trinomial short-rate tree: the branching geometry,
// the forward-induction calibration of the drift to a zero-coupon curve and the generic
// backward-induction pricer.
//
// Node (i, j) lives at step i in state j with |j| <= i. Per-node quantities are stored in flat
// slices indexed by i*i + j + i, so a step occupies 2i+1 contiguous entries.
package lattice

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/hwtree/curve"
)

// curveTolerance bounds |P(0) - 1|.
const curveTolerance = 1e-10

// Option configures a Lattice.
type Option func(*Lattice)

// WithWorkers fans the states of one step out over n goroutines. n <= 1 is sequential.
func WithWorkers(n int) Option {
	return func(l *Lattice) {
		l.workers = n
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(l *Lattice) {
		if log != nil {
			l.log = log
		}
	}
}

// Lattice is a Hull-White trinomial tree fitted to a discount curve.
//
// It starts unbuilt. Build calibrates it exactly once; the calibrated trees are published only
// after the forward pass completes, so readers never observe a partially built lattice. A built
// lattice is read-only and may be shared by concurrent pricers.
type Lattice struct {
	geo       *Geometry
	discounts []float64
	workers   int
	log       *zap.Logger

	once  sync.Once
	state atomic.Pointer[calibration]
	err   error
}

// calibration is the output of the forward pass. It is never mutated after publication.
type calibration struct {
	alphas      []float64
	rates       []float64
	discounts   []float64
	statePrices []float64
}

func node(i, j int) int {
	return i*i + j + i
}

// New returns an unbuilt lattice for params p and discount prices index-aligned to steps:
// discounts[i] is the price of the zero-coupon bond maturing at i*dt. At least N+1 prices are
// needed; the curve itself is checked by Build.
func New(p Params, discounts []float64, opts ...Option) (*Lattice, error) {
	geo, err := NewGeometry(p)
	if err != nil {
		return nil, fmt.Errorf("lattice.New: %w", err)
	}
	l := &Lattice{
		geo:       geo,
		discounts: append([]float64(nil), discounts...),
		workers:   1,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// FromCurve resamples c onto the lattice time grid and returns an unbuilt lattice.
func FromCurve(p Params, c *curve.ZeroCurve, opts ...Option) (*Lattice, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("lattice.FromCurve: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("lattice.FromCurve: nil curve: %w", ErrCalibration)
	}
	return New(p, c.Grid(p.Dt(), p.N), opts...)
}

// Build calibrates the lattice on first call and returns the outcome on every call. It never
// rebuilds; a failed calibration stays failed.
func (l *Lattice) Build() error {
	l.once.Do(func() {
		start := time.Now()
		cal, err := l.calibrate()
		if err != nil {
			l.err = fmt.Errorf("lattice.Build: %w", err)
			l.log.Warn("lattice calibration failed",
				zap.String("params", l.geo.params.String()),
				zap.Error(err))
			return
		}
		l.state.Store(cal)
		l.log.Debug("lattice calibrated",
			zap.Int("steps", l.geo.params.N),
			zap.Int("jmax", l.geo.jmax),
			zap.Float64("dt", l.geo.dt),
			zap.Float64("dR", l.geo.dR),
			zap.Int("workers", l.workers),
			zap.Duration("elapsed", time.Since(start)))
	})
	return l.err
}

// IsBuilt reports whether calibrated trees are available.
func (l *Lattice) IsBuilt() bool {
	return l.state.Load() != nil
}

// Geometry returns the branching structure.
func (l *Lattice) Geometry() *Geometry { return l.geo }

// Params returns the model parameters.
func (l *Lattice) Params() Params { return l.geo.params }

// Steps is the number of time steps N.
func (l *Lattice) Steps() int { return l.geo.params.N }

// Dt is the step length.
func (l *Lattice) Dt() float64 { return l.geo.dt }

// Prob is the transition probability from state `from` to state `to`.
func (l *Lattice) Prob(from, to int) float64 { return l.geo.Prob(from, to) }

// CurvePrice is the input discount price for step m.
func (l *Lattice) CurvePrice(m int) (float64, error) {
	if m < 0 || m >= len(l.discounts) {
		return 0, fmt.Errorf("CurvePrice: step %d outside [0, %d]: %w", m, len(l.discounts)-1, ErrOutOfRange)
	}
	return l.discounts[m], nil
}

func (l *Lattice) calibrated() (*calibration, error) {
	cal := l.state.Load()
	if cal == nil {
		return nil, ErrNotBuilt
	}
	return cal, nil
}

func (l *Lattice) checkNode(i, j int) error {
	if i < 0 || i >= l.geo.params.N || j < -i || j > i {
		return fmt.Errorf("node (%d, %d) outside steps [0, %d]: %w", i, j, l.geo.params.N-1, ErrOutOfRange)
	}
	return nil
}

// ShortRate is the short rate alpha_i + j*dR at node (i, j), i < N.
func (l *Lattice) ShortRate(i, j int) (float64, error) {
	cal, err := l.calibrated()
	if err != nil {
		return 0, fmt.Errorf("ShortRate: %w", err)
	}
	if err := l.checkNode(i, j); err != nil {
		return 0, fmt.Errorf("ShortRate: %w", err)
	}
	return cal.rates[node(i, j)], nil
}

// Discount is the one-period discount factor exp(-r(i,j)*dt) at node (i, j), i < N.
func (l *Lattice) Discount(i, j int) (float64, error) {
	cal, err := l.calibrated()
	if err != nil {
		return 0, fmt.Errorf("Discount: %w", err)
	}
	if err := l.checkNode(i, j); err != nil {
		return 0, fmt.Errorf("Discount: %w", err)
	}
	return cal.discounts[node(i, j)], nil
}

// StatePrice is the Arrow-Debreu price of node (i, j), i < N.
func (l *Lattice) StatePrice(i, j int) (float64, error) {
	cal, err := l.calibrated()
	if err != nil {
		return 0, fmt.Errorf("StatePrice: %w", err)
	}
	if err := l.checkNode(i, j); err != nil {
		return 0, fmt.Errorf("StatePrice: %w", err)
	}
	return cal.statePrices[node(i, j)], nil
}

// Alphas returns a copy of the fitted drift per step.
func (l *Lattice) Alphas() ([]float64, error) {
	cal, err := l.calibrated()
	if err != nil {
		return nil, fmt.Errorf("Alphas: %w", err)
	}
	return append([]float64(nil), cal.alphas...), nil
}

// ZeroBond is the lattice-implied price of the zero-coupon bond maturing at step m, computed
// from the state prices of step m-1.
func (l *Lattice) ZeroBond(m int) (float64, error) {
	cal, err := l.calibrated()
	if err != nil {
		return 0, fmt.Errorf("ZeroBond: %w", err)
	}
	if m < 0 || m > l.geo.params.N {
		return 0, fmt.Errorf("ZeroBond: step %d outside [0, %d]: %w", m, l.geo.params.N, ErrOutOfRange)
	}
	if m == 0 {
		return 1, nil
	}
	i := m - 1
	sum := 0.0
	for j := -i; j <= i; j++ {
		sum += cal.statePrices[node(i, j)] * cal.discounts[node(i, j)]
	}
	return sum, nil
}

// checkCurve enforces P(0)=1 and strictly positive, strictly decreasing prices up to step N.
func (l *Lattice) checkCurve() error {
	n := l.geo.params.N
	if len(l.discounts) < n+1 {
		return fmt.Errorf("discount curve has %d prices, need %d: %w", len(l.discounts), n+1, ErrCalibration)
	}
	if math.Abs(l.discounts[0]-1) > curveTolerance {
		return fmt.Errorf("discount price at step 0 is %.12f, want 1: %w", l.discounts[0], ErrCalibration)
	}
	for i := 1; i <= n; i++ {
		p := l.discounts[i]
		if math.IsNaN(p) || p <= 0 {
			return fmt.Errorf("discount price at step %d is %v: %w", i, p, ErrCalibration)
		}
		if p >= l.discounts[i-1] {
			return fmt.Errorf("discount prices not decreasing at step %d (%.12f >= %.12f): %w", i, p, l.discounts[i-1], ErrCalibration)
		}
	}
	return nil
}
