package instruments

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/hwtree/lattice"
)

const (
	spreadTolerance = 1e-10
	spreadMaxIter   = 100
	spreadFloor     = -0.05
	spreadCeiling   = 0.50
	spreadBump      = 1e-5
)

// SpreadResult is the output of SolveSpread.
type SpreadResult struct {
	// Spread is the continuously compounded spread over the lattice short rate.
	Spread float64
	// Price is the model price at Spread.
	Price float64
	// Iterations is the number of Newton-Raphson steps taken.
	Iterations int
}

// SolveSpread finds the constant spread s such that inst.PriceWithSpread(l, s) == target.
// For bonds this is the Z-spread; for callable bonds it is the option-adjusted spread.
//
// Newton-Raphson with a central-difference derivative, clamped to [-5%, 50%].
func SolveSpread(l *lattice.Lattice, inst SpreadPricer, target float64) (SpreadResult, error) {
	if inst == nil {
		return SpreadResult{}, errors.New("SolveSpread: nil instrument")
	}
	if math.IsNaN(target) || target <= 0 {
		return SpreadResult{}, fmt.Errorf("SolveSpread: target price must be positive, got %v", target)
	}

	s := 0.0
	for iter := 0; iter < spreadMaxIter; iter++ {
		price, err := inst.PriceWithSpread(l, s)
		if err != nil {
			return SpreadResult{}, fmt.Errorf("SolveSpread: %w", err)
		}
		f := price - target
		if math.Abs(f) < spreadTolerance {
			return SpreadResult{Spread: s, Price: price, Iterations: iter + 1}, nil
		}

		up, err := inst.PriceWithSpread(l, s+spreadBump)
		if err != nil {
			return SpreadResult{}, fmt.Errorf("SolveSpread: %w", err)
		}
		down, err := inst.PriceWithSpread(l, s-spreadBump)
		if err != nil {
			return SpreadResult{}, fmt.Errorf("SolveSpread: %w", err)
		}
		dPds := (up - down) / (2 * spreadBump)
		if math.Abs(dPds) < 1e-15 {
			return SpreadResult{Spread: s, Price: price, Iterations: iter + 1},
				fmt.Errorf("SolveSpread: derivative too small at iter %d", iter)
		}

		s = clamp(s-f/dPds, spreadFloor, spreadCeiling)
	}

	return SpreadResult{Spread: s, Iterations: spreadMaxIter},
		fmt.Errorf("SolveSpread: did not converge after %d iterations", spreadMaxIter)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
