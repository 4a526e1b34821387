package pricing

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/meenmo/hwtree/analytic"
	"github.com/meenmo/hwtree/calibration"
	"github.com/meenmo/hwtree/config"
	"github.com/meenmo/hwtree/instruments"
)

// calibrate fits a and sigma to req.Caps, starting from the configured model.
func calibrate(req Request, cfg config.Config, log *zap.Logger) (*Output, error) {
	if len(req.Caps) == 0 {
		return nil, fmt.Errorf("caps is required")
	}
	freq := req.Frequency
	if freq <= 0 {
		freq = instruments.DefaultFrequency
	}
	horizon := cfg.Model.T
	for _, c := range req.Caps {
		horizon = math.Max(horizon, c.Maturity)
	}
	crv, err := req.Curve.build(horizon)
	if err != nil {
		return nil, err
	}

	period := 1 / float64(freq)
	quotes := make([]calibration.CapQuote, 0, len(req.Caps))
	for i, c := range req.Caps {
		if c.Maturity <= period {
			return nil, fmt.Errorf("caps[%d]: maturity %v must exceed one period", i, c.Maturity)
		}
		var times []float64
		for t := period; t <= c.Maturity+1e-9; t += period {
			times = append(times, t)
		}
		lets := analytic.Strip(crv, times, c.StrikePct/100)
		switch {
		case c.Price > 0:
			quotes = append(quotes, calibration.CapQuote{Caplets: lets, Price: c.Price})
		case c.BlackVol > 0:
			quotes = append(quotes, calibration.BlackQuote(lets, c.BlackVol, 1))
		default:
			return nil, fmt.Errorf("caps[%d]: price or black_vol is required", i)
		}
	}

	res, err := calibration.Fit(quotes, cfg.Model,
		calibration.WithLogger(log),
		calibration.WithMaxEvaluations(cfg.Calibration.MaxEvaluations))
	if err != nil {
		return nil, err
	}
	obj := res.Objective
	return &Output{Model: &res.Params, Objective: &obj}, nil
}
