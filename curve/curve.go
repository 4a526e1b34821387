// Package curve holds the zero-coupon discount curve the lattice is calibrated to.
//
// Pillars are (maturity in years, discount price) pairs. Discount factors between pillars are
// log-linearly interpolated, which is equivalent to piecewise-flat continuously compounded
// forward rates.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidCurve is returned when pillars cannot define a discount curve.
var ErrInvalidCurve = errors.New("invalid zero-coupon curve")

// ZeroCurve is an immutable set of discount pillars starting at maturity 0.
type ZeroCurve struct {
	maturities []float64
	prices     []float64
}

// NewZeroCurve validates pillars and returns a curve. A (0, 1) pillar is prepended when the
// first maturity is positive.
func NewZeroCurve(maturities, prices []float64) (*ZeroCurve, error) {
	if len(maturities) == 0 || len(maturities) != len(prices) {
		return nil, fmt.Errorf("NewZeroCurve: %d maturities vs %d prices: %w", len(maturities), len(prices), ErrInvalidCurve)
	}
	if floats.HasNaN(maturities) || floats.HasNaN(prices) {
		return nil, fmt.Errorf("NewZeroCurve: NaN pillar: %w", ErrInvalidCurve)
	}
	if !sort.Float64sAreSorted(maturities) {
		return nil, fmt.Errorf("NewZeroCurve: maturities must be ascending: %w", ErrInvalidCurve)
	}
	for i := 1; i < len(maturities); i++ {
		if maturities[i] == maturities[i-1] {
			return nil, fmt.Errorf("NewZeroCurve: duplicate maturity %.6f: %w", maturities[i], ErrInvalidCurve)
		}
	}
	if maturities[0] < 0 {
		return nil, fmt.Errorf("NewZeroCurve: negative maturity %.6f: %w", maturities[0], ErrInvalidCurve)
	}
	if floats.Min(prices) <= 0 {
		return nil, fmt.Errorf("NewZeroCurve: non-positive discount price %.10f: %w", floats.Min(prices), ErrInvalidCurve)
	}

	c := &ZeroCurve{}
	if maturities[0] > 0 {
		c.maturities = append([]float64{0}, maturities...)
		c.prices = append([]float64{1}, prices...)
	} else {
		if math.Abs(prices[0]-1) > 1e-12 {
			return nil, fmt.Errorf("NewZeroCurve: price at maturity 0 is %.12f, want 1: %w", prices[0], ErrInvalidCurve)
		}
		c.maturities = append([]float64(nil), maturities...)
		c.prices = append([]float64(nil), prices...)
	}
	return c, nil
}

// Flat returns a curve with continuously compounded zero rate r and pillars every
// horizon/n years out to horizon.
func Flat(r, horizon float64, n int) *ZeroCurve {
	if n < 1 {
		n = 1
	}
	c := &ZeroCurve{
		maturities: make([]float64, n+1),
		prices:     make([]float64, n+1),
	}
	for i := 0; i <= n; i++ {
		t := horizon * float64(i) / float64(n)
		c.maturities[i] = t
		c.prices[i] = math.Exp(-r * t)
	}
	return c
}

// DF returns the discount factor for maturity t (years). Beyond the last pillar the last
// segment's forward rate is extended.
func (c *ZeroCurve) DF(t float64) float64 {
	if t <= 0 {
		return 1
	}
	n := len(c.maturities)
	if n == 1 {
		return c.prices[0]
	}
	idx := sort.SearchFloat64s(c.maturities, t)
	if idx < n && c.maturities[idx] == t {
		return c.prices[idx]
	}
	lo, hi := idx-1, idx
	if idx >= n {
		lo, hi = n-2, n-1
	}
	t1, t2 := c.maturities[lo], c.maturities[hi]
	df1, df2 := c.prices[lo], c.prices[hi]
	forwardRate := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forwardRate*(t-t1))
}

// ZeroRate returns the continuously compounded zero rate for maturity t.
func (c *ZeroCurve) ZeroRate(t float64) float64 {
	if t <= 0 {
		t = c.firstPositiveMaturity()
		if t <= 0 {
			return 0
		}
	}
	return -math.Log(c.DF(t)) / t
}

// ForwardRate returns the simply compounded forward rate between t0 and t1.
func (c *ZeroCurve) ForwardRate(t0, t1 float64) float64 {
	if t1 <= t0 {
		return 0
	}
	return (c.DF(t0)/c.DF(t1) - 1) / (t1 - t0)
}

// Grid resamples the curve onto a lattice time grid: the result has n+1 entries with
// Grid[i] = DF(i*dt).
func (c *ZeroCurve) Grid(dt float64, n int) []float64 {
	out := make([]float64, n+1)
	for i := range out {
		out[i] = c.DF(float64(i) * dt)
	}
	return out
}

// Maturities returns a copy of the pillar maturities.
func (c *ZeroCurve) Maturities() []float64 {
	return append([]float64(nil), c.maturities...)
}

// Prices returns a copy of the pillar discount prices.
func (c *ZeroCurve) Prices() []float64 {
	return append([]float64(nil), c.prices...)
}

// Horizon is the last pillar maturity.
func (c *ZeroCurve) Horizon() float64 {
	return c.maturities[len(c.maturities)-1]
}

func (c *ZeroCurve) firstPositiveMaturity() float64 {
	for _, m := range c.maturities {
		if m > 0 {
			return m
		}
	}
	return 0
}
