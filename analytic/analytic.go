// Package analytic holds closed-form Hull-White and Black-76 prices for zero-bond options,
// caplets and caps. They serve as benchmarks for the lattice and as the objective of the
// model calibration.
package analytic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/hwtree/curve"
)

// Caplet describes one period of a cap: the rate fixes at Reset and pays at Pay (both in
// years). P0 and P1 are the discount factors to Reset and Pay.
type Caplet struct {
	Reset  float64
	Pay    float64
	Strike float64
	P0     float64
	P1     float64
}

// Tau is the accrual fraction Pay - Reset.
func (c Caplet) Tau() float64 { return c.Pay - c.Reset }

// Forward is the simply compounded forward rate for the period.
func (c Caplet) Forward() float64 { return (c.P0/c.P1 - 1) / c.Tau() }

// Strip builds consecutive caplets on curve c at the given reset times; the last entry is only
// the final payment time.
func Strip(c *curve.ZeroCurve, times []float64, strike float64) []Caplet {
	if len(times) < 2 {
		return nil
	}
	out := make([]Caplet, 0, len(times)-1)
	for k := 0; k+1 < len(times); k++ {
		out = append(out, Caplet{
			Reset:  times[k],
			Pay:    times[k+1],
			Strike: strike,
			P0:     c.DF(times[k]),
			P1:     c.DF(times[k+1]),
		})
	}
	return out
}

// B is the Hull-White bond volatility factor (1 - exp(-a(T-t)))/a.
func B(a, t, T float64) float64 {
	return (1 - math.Exp(-a*(T-t))) / a
}

// bondVol is the standard deviation of ln P(T0,T1) seen from today.
func bondVol(a, sigma, t0, t1 float64) float64 {
	return sigma * math.Sqrt((1-math.Exp(-2*a*t0))/(2*a)) * B(a, t0, t1)
}

// ZeroBondPut prices a European put expiring at t0, strike k, on the zero bond maturing at t1.
// p0 and p1 are today's discount factors to t0 and t1.
func ZeroBondPut(a, sigma, t0, t1, p0, p1, k float64) float64 {
	sp := bondVol(a, sigma, t0, t1)
	if sp <= 0 {
		return math.Max(k*p0-p1, 0)
	}
	d1 := math.Log(p1/(k*p0))/sp + sp/2
	d2 := d1 - sp
	return k*p0*distuv.UnitNormal.CDF(-d2) - p1*distuv.UnitNormal.CDF(-d1)
}

// ZeroBondCall is the call with the same terms as ZeroBondPut.
func ZeroBondCall(a, sigma, t0, t1, p0, p1, k float64) float64 {
	sp := bondVol(a, sigma, t0, t1)
	if sp <= 0 {
		return math.Max(p1-k*p0, 0)
	}
	d1 := math.Log(p1/(k*p0))/sp + sp/2
	d2 := d1 - sp
	return p1*distuv.UnitNormal.CDF(d1) - k*p0*distuv.UnitNormal.CDF(d2)
}

// HWCaplet is a caplet as (1+K tau) puts on the zero bond struck at 1/(1+K tau).
func HWCaplet(c Caplet, notional, a, sigma float64) float64 {
	x := 1 + c.Strike*c.Tau()
	return notional * x * ZeroBondPut(a, sigma, c.Reset, c.Pay, c.P0, c.P1, 1/x)
}

// HWFloorlet is the matching floorlet, a call on the zero bond.
func HWFloorlet(c Caplet, notional, a, sigma float64) float64 {
	x := 1 + c.Strike*c.Tau()
	return notional * x * ZeroBondCall(a, sigma, c.Reset, c.Pay, c.P0, c.P1, 1/x)
}

// HWCap sums HWCaplet over the strip.
func HWCap(lets []Caplet, notional, a, sigma float64) float64 {
	total := 0.0
	for _, c := range lets {
		total += HWCaplet(c, notional, a, sigma)
	}
	return total
}

// BlackCaplet is Black-76 with caplet volatility vol.
func BlackCaplet(c Caplet, vol, notional float64) float64 {
	f := c.Forward()
	scale := c.P1 * c.Tau() * notional
	sd := vol * math.Sqrt(c.Reset)
	if sd <= 0 || f <= 0 || c.Strike <= 0 {
		return math.Max(f-c.Strike, 0) * scale
	}
	d1 := (math.Log(f/c.Strike) + 0.5*sd*sd) / sd
	d2 := d1 - sd
	return (f*distuv.UnitNormal.CDF(d1) - c.Strike*distuv.UnitNormal.CDF(d2)) * scale
}

// BlackCap prices a strip at one flat volatility.
func BlackCap(lets []Caplet, vol, notional float64) float64 {
	total := 0.0
	for _, c := range lets {
		total += BlackCaplet(c, vol, notional)
	}
	return total
}
