package calibration_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meenmo/hwtree/analytic"
	"github.com/meenmo/hwtree/calibration"
	"github.com/meenmo/hwtree/curve"
	"github.com/meenmo/hwtree/lattice"
)

// capStrips returns semi-annual caps from 1y to 5y on c, struck at strike.
func capStrips(c *curve.ZeroCurve, strike float64) [][]analytic.Caplet {
	var out [][]analytic.Caplet
	for years := 1; years <= 5; years++ {
		times := []float64{0.5}
		for t := 1.0; t <= float64(years)+1e-9; t += 0.5 {
			times = append(times, t)
		}
		out = append(out, analytic.Strip(c, times, strike))
	}
	return out
}

func upward(t *testing.T) *curve.ZeroCurve {
	t.Helper()
	var ms, ps []float64
	for k := 0; k <= 24; k++ {
		m := 0.25 * float64(k)
		r := 0.025 + 0.01*(1-math.Exp(-m/2))
		ms = append(ms, m)
		ps = append(ps, math.Exp(-r*m))
	}
	c, err := curve.NewZeroCurve(ms, ps)
	require.NoError(t, err)
	return c
}

func TestFit_RecoversModelPrices(t *testing.T) {
	t.Parallel()

	const a, sigma = 0.08, 0.012
	var quotes []calibration.CapQuote
	for _, lets := range capStrips(upward(t), 0.03) {
		quotes = append(quotes, calibration.CapQuote{Caplets: lets, Price: analytic.HWCap(lets, 1, a, sigma)})
	}

	core, logs := observer.New(zap.InfoLevel)
	res, err := calibration.Fit(quotes, lattice.Params{A: 0.2, Sigma: 0.02, T: 5, N: 60},
		calibration.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Less(t, res.Objective, 1e-8)
	require.Positive(t, res.Evaluations)
	require.Equal(t, 5.0, res.Params.T)
	require.Equal(t, 60, res.Params.N)
	require.Equal(t, 1, logs.FilterMessage("hull-white fit").Len())

	for _, q := range quotes {
		model := analytic.HWCap(q.Caplets, 1, res.Params.A, res.Params.Sigma)
		require.InEpsilon(t, q.Price, model, 1e-3)
	}
	require.InEpsilon(t, sigma, res.Params.Sigma, 0.05)
}

func TestFit_BlackQuotes(t *testing.T) {
	t.Parallel()

	var quotes []calibration.CapQuote
	for _, lets := range capStrips(upward(t), 0.03) {
		quotes = append(quotes, calibration.BlackQuote(lets, 0.35, 1e6))
	}
	res, err := calibration.Fit(quotes, lattice.Params{A: 0.05, Sigma: 0.01, T: 5, N: 60})
	require.NoError(t, err)
	require.Positive(t, res.Params.A)
	require.Positive(t, res.Params.Sigma)
	require.LessOrEqual(t, res.Objective, calibration.Objective(quotes, 0.05, 0.01))
}

func TestFit_Errors(t *testing.T) {
	t.Parallel()

	initial := lattice.Params{A: 0.1, Sigma: 0.01, T: 5, N: 60}
	_, err := calibration.Fit(nil, initial)
	require.Error(t, err)

	lets := capStrips(upward(t), 0.03)[0]
	_, err = calibration.Fit([]calibration.CapQuote{{Caplets: lets, Price: 0}}, initial)
	require.Error(t, err)

	_, err = calibration.Fit([]calibration.CapQuote{{Price: 0.01}}, initial)
	require.Error(t, err)

	_, err = calibration.Fit([]calibration.CapQuote{{Caplets: lets, Price: 0.01}}, lattice.Params{A: 0, Sigma: 0.01})
	require.ErrorIs(t, err, lattice.ErrInvalidParameters)
}
