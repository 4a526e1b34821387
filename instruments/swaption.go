package instruments

import (
	"errors"
	"fmt"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/payoff"
	"github.com/meenmo/hwtree/schedule"
)

// Swaption is a European or Bermudan option to enter a swap, priced as an option on the fixed
// leg bond whose coupon is the payoff strike. Exercise at a payment step excludes the coupon
// paid there.
type Swaption struct {
	Payments  schedule.Schedule
	Exercises schedule.Schedule
	Frequency int
	Payoff    payoff.BondPayoff
}

// NewSwaption validates both schedules. Every exercise must fall on or before the last payment.
func NewSwaption(payments, exercises schedule.Schedule, frequency int, po payoff.BondPayoff) (*Swaption, error) {
	if po == nil {
		return nil, errors.New("NewSwaption: nil payoff")
	}
	if err := checkSchedule("NewSwaption: payments", payments); err != nil {
		return nil, err
	}
	if err := checkSchedule("NewSwaption: exercises", exercises); err != nil {
		return nil, err
	}
	if last, mat := exercises.Last().Step, payments.Last().Step; last > mat {
		return nil, fmt.Errorf("NewSwaption: exercise step %d after final payment %d: %w", last, mat, lattice.ErrScheduleMismatch)
	}
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return &Swaption{Payments: payments, Exercises: exercises, Frequency: frequency, Payoff: po}, nil
}

// Underlying is the fixed-leg bond paying the strike.
func (s *Swaption) Underlying() *Bond {
	return &Bond{
		Payments:  s.Payments,
		Coupons:   FlatCoupons(s.Payoff.StrikeRate(), len(s.Payments)),
		Frequency: s.Frequency,
	}
}

// Price is the root value of the option tree.
func (s *Swaption) Price(l *lattice.Lattice) (float64, error) {
	return s.PriceWithSpread(l, 0)
}

// PriceWithSpread discounts both the underlying and the option at the short rate plus spread.
func (s *Swaption) PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error) {
	if err := prepare(l, s.Payments, s.Exercises); err != nil {
		return 0, fmt.Errorf("Swaption: %w", err)
	}
	bond := s.Underlying()
	bt, err := bond.Tree(l, spread)
	if err != nil {
		return 0, fmt.Errorf("Swaption: %w", err)
	}
	exercise := func(i, j int) float64 {
		return s.Payoff.Payoff(bt.At(i, j) - bond.CouponAt(i))
	}
	m := s.Exercises.Last().Step
	tree, err := l.Induct(lattice.Induction{
		Final:         m,
		Terminal:      func(j int) float64 { return exercise(m, j) },
		ExerciseSteps: s.Exercises.Steps(),
		ExerciseValue: exercise,
		Rule:          lattice.HolderOptimal,
		Spread:        spread,
	})
	if err != nil {
		return 0, fmt.Errorf("Swaption: %w", err)
	}
	return tree.Root(), nil
}
