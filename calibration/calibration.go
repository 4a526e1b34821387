// Package calibration fits the Hull-White mean reversion and volatility to cap prices.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/meenmo/hwtree/analytic"
	"github.com/meenmo/hwtree/lattice"
)

// CapQuote is a market cap price with the caplets it is made of.
type CapQuote struct {
	Caplets  []analytic.Caplet
	Price    float64
	Notional float64
}

// BlackQuote prices a cap strip at a flat Black volatility.
func BlackQuote(lets []analytic.Caplet, vol, notional float64) CapQuote {
	return CapQuote{Caplets: lets, Price: analytic.BlackCap(lets, vol, notional), Notional: notional}
}

// Result is the outcome of Fit.
type Result struct {
	// Params carries the fitted A and Sigma; T and N come from the initial guess.
	Params      lattice.Params
	Objective   float64
	Iterations  int
	Evaluations int
	Status      string
}

// Option configures Fit.
type Option func(*settings)

type settings struct {
	log       *zap.Logger
	maxEvals  int
	tolerance float64
}

// WithLogger logs the fit outcome.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxEvaluations bounds the number of objective evaluations.
func WithMaxEvaluations(n int) Option {
	return func(s *settings) { s.maxEvals = n }
}

// Objective is sum(((market - model)/market)^2) over the quotes.
func Objective(quotes []CapQuote, a, sigma float64) float64 {
	loss := 0.0
	for _, q := range quotes {
		hw := analytic.HWCap(q.Caplets, notional(q), a, sigma)
		rel := (q.Price - hw) / q.Price
		loss += rel * rel
	}
	return loss
}

func notional(q CapQuote) float64 {
	if q.Notional == 0 {
		return 1
	}
	return q.Notional
}

// Fit minimises Objective with Nelder-Mead. The search runs on (ln a, ln sigma) so both stay
// positive.
func Fit(quotes []CapQuote, initial lattice.Params, opts ...Option) (Result, error) {
	s := settings{log: zap.NewNop(), maxEvals: 5000, tolerance: 1e-16}
	for _, opt := range opts {
		opt(&s)
	}
	if len(quotes) == 0 {
		return Result{}, errors.New("Fit: no quotes")
	}
	for k, q := range quotes {
		if len(q.Caplets) == 0 {
			return Result{}, fmt.Errorf("Fit: quote %d has no caplets", k)
		}
		if math.IsNaN(q.Price) || q.Price <= 0 {
			return Result{}, fmt.Errorf("Fit: quote %d price must be positive, got %v", k, q.Price)
		}
	}
	if initial.A <= 0 || initial.Sigma <= 0 {
		return Result{}, fmt.Errorf("Fit: initial a=%v sigma=%v: %w", initial.A, initial.Sigma, lattice.ErrInvalidParameters)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return Objective(quotes, math.Exp(x[0]), math.Exp(x[1]))
		},
	}
	cfg := &optimize.Settings{
		FuncEvaluations: s.maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   s.tolerance,
			Iterations: 200,
		},
	}
	x0 := []float64{math.Log(initial.A), math.Log(initial.Sigma)}
	res, err := optimize.Minimize(problem, x0, cfg, &optimize.NelderMead{})
	if err != nil {
		return Result{}, fmt.Errorf("Fit: %w", err)
	}

	fitted := initial
	fitted.A = math.Exp(res.X[0])
	fitted.Sigma = math.Exp(res.X[1])
	out := Result{
		Params:      fitted,
		Objective:   res.F,
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
		Status:      res.Status.String(),
	}
	s.log.Info("hull-white fit",
		zap.Float64("a", fitted.A),
		zap.Float64("sigma", fitted.Sigma),
		zap.Float64("objective", out.Objective),
		zap.Int("evaluations", out.Evaluations),
		zap.String("status", out.Status))
	return out, nil
}
