package analytic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/hwtree/analytic"
	"github.com/meenmo/hwtree/curve"
	"github.com/meenmo/hwtree/instruments"
	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/payoff"
	"github.com/meenmo/hwtree/schedule"
)

func TestZeroBondOptions_Parity(t *testing.T) {
	t.Parallel()

	p0, p1 := math.Exp(-0.03), math.Exp(-0.03*1.5)
	for _, k := range []float64{0.97, 0.985, 1.0} {
		put := analytic.ZeroBondPut(0.1, 0.01, 1, 1.5, p0, p1, k)
		call := analytic.ZeroBondCall(0.1, 0.01, 1, 1.5, p0, p1, k)
		require.GreaterOrEqual(t, put, 0.0)
		require.GreaterOrEqual(t, call, 0.0)
		require.InDelta(t, p1-k*p0, call-put, 1e-14)
	}

	// Expiry today leaves intrinsic value.
	require.InDelta(t, math.Max(0.99*p0-p1, 0), analytic.ZeroBondPut(0.1, 0.01, 0, 1.5, p0, p1, 0.99), 1e-15)
}

func TestHWCaplet_ParityAndMonotonicity(t *testing.T) {
	t.Parallel()

	c := curve.Flat(0.03, 5, 20)
	lets := analytic.Strip(c, []float64{1, 1.5}, 0.03)
	require.Len(t, lets, 1)
	let := lets[0]

	capl := analytic.HWCaplet(let, 1, 0.1, 0.01)
	floor := analytic.HWFloorlet(let, 1, 0.1, 0.01)
	require.InDelta(t, let.P0-(1+let.Strike*let.Tau())*let.P1, capl-floor, 1e-14)

	prev := 0.0
	for _, sigma := range []float64{0.002, 0.005, 0.01, 0.02} {
		v := analytic.HWCaplet(let, 1, 0.1, sigma)
		require.Greater(t, v, prev)
		prev = v
	}
	require.InDelta(t, 1e6*capl, analytic.HWCaplet(let, 1e6, 0.1, 0.01), 1e-6)
}

func TestHWCap_SumsCaplets(t *testing.T) {
	t.Parallel()

	lets := analytic.Strip(curve.Flat(0.03, 5, 20), []float64{0.5, 1, 1.5, 2}, 0.03)
	require.Len(t, lets, 3)
	sum := 0.0
	for _, let := range lets {
		sum += analytic.HWCaplet(let, 1, 0.1, 0.01)
	}
	require.InDelta(t, sum, analytic.HWCap(lets, 1, 0.1, 0.01), 1e-15)
	require.Nil(t, analytic.Strip(curve.Flat(0.03, 5, 20), []float64{1}, 0.03))
}

func TestBlackCaplet(t *testing.T) {
	t.Parallel()

	let := analytic.Strip(curve.Flat(0.03, 5, 20), []float64{1, 1.5}, 0.03)[0]
	f := let.Forward()
	require.InDelta(t, (math.Exp(0.015)-1)/0.5, f, 1e-14)

	atm := analytic.BlackCaplet(let, 0.2, 1)
	require.Greater(t, atm, 0.0)
	require.Greater(t, analytic.BlackCaplet(let, 0.3, 1), atm)

	// Zero volatility is intrinsic.
	itm := let
	itm.Strike = 0.02
	require.InDelta(t, (f-0.02)*let.P1*0.5, analytic.BlackCaplet(itm, 0, 1), 1e-15)
	require.InDelta(t, 2*atm, analytic.BlackCap([]analytic.Caplet{let, let}, 0.2, 1), 1e-15)
}

func TestLatticeCapletMatchesClosedForm(t *testing.T) {
	t.Parallel()

	c := curve.Flat(0.03, 5, 20)
	p := lattice.Params{A: 0.1, Sigma: 0.01, T: 5, N: 120}
	l, err := lattice.FromCurve(p, c)
	require.NoError(t, err)

	// Steps 24 and 36 are 1y and 1.5y on a 1/24 grid.
	let := analytic.Strip(c, []float64{1, 1.5}, 0.03)[0]
	for _, po := range []struct {
		lattice payoff.RatePayoff
		closed  float64
	}{
		{payoff.Caplet{Strike: 0.03}, analytic.HWCaplet(let, 1, p.A, p.Sigma)},
		{payoff.Floorlet{Strike: 0.03}, analytic.HWFloorlet(let, 1, p.A, p.Sigma)},
	} {
		cf, err := instruments.NewCapFloorlet(schedule.Point{Step: 24}, schedule.Point{Step: 36}, po.lattice)
		require.NoError(t, err)
		v, err := cf.Price(l)
		require.NoError(t, err)
		require.InEpsilon(t, po.closed, v, 0.1)
	}
}
