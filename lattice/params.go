package lattice

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameters is returned when a, sigma, T or N cannot define a lattice.
	ErrInvalidParameters = errors.New("invalid lattice parameters")
	// ErrCalibration is returned when the drift cannot be fitted to the discount curve.
	ErrCalibration = errors.New("lattice calibration failed")
	// ErrScheduleMismatch is returned when a payment or exercise step does not fit the lattice.
	ErrScheduleMismatch = errors.New("schedule does not fit lattice")
	// ErrNotBuilt is returned when calibrated trees are read before Build.
	ErrNotBuilt = errors.New("lattice not built")
	// ErrOutOfRange is returned for node coordinates outside the lattice.
	ErrOutOfRange = errors.New("node out of range")
)

// jmaxFactor is the Hull-White choice that keeps all branch probabilities positive.
const jmaxFactor = 0.184

// Params are the Hull-White one-factor model and discretisation parameters.
type Params struct {
	// A is the mean-reversion speed.
	A float64 `json:"a" yaml:"a"`
	// Sigma is the short-rate volatility.
	Sigma float64 `json:"sigma" yaml:"sigma"`
	// T is the lattice horizon in years.
	T float64 `json:"horizon" yaml:"horizon"`
	// N is the number of time steps.
	N int `json:"steps" yaml:"steps"`
}

// Validate reports ErrInvalidParameters for non-positive or non-finite inputs.
func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%s must be positive and finite, got %v: %w", name, v, ErrInvalidParameters)
		}
		return nil
	}
	if err := check("a", p.A); err != nil {
		return err
	}
	if err := check("sigma", p.Sigma); err != nil {
		return err
	}
	if err := check("horizon", p.T); err != nil {
		return err
	}
	if p.N <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", p.N, ErrInvalidParameters)
	}
	return nil
}

// Dt is the step length T/N.
func (p Params) Dt() float64 {
	return p.T / float64(p.N)
}

// DR is the rate spacing sqrt(3*sigma^2*dt).
func (p Params) DR() float64 {
	return math.Sqrt(3 * p.Sigma * p.Sigma * p.Dt())
}

// JMax is ceil(0.184/(a*dt)), capped at N+2 since no state beyond N+1 is ever visited.
func (p Params) JMax() int {
	jf := math.Ceil(jmaxFactor / (p.A * p.Dt()))
	if jf > float64(p.N+2) {
		return p.N + 2
	}
	return int(jf)
}

func (p Params) String() string {
	return fmt.Sprintf("a=%g sigma=%g T=%g N=%d", p.A, p.Sigma, p.T, p.N)
}
