// Package instruments prices fixed-income products on a calibrated Hull-White lattice.
//
// Every adapter validates its schedule when constructed, builds the lattice on first use and
// reduces the product to one or two backward-induction passes.
package instruments

import (
	"errors"
	"fmt"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/schedule"
)

// Instrument is anything with a lattice price.
type Instrument interface {
	Price(l *lattice.Lattice) (float64, error)
}

// SpreadPricer prices with a constant continuous spread over every short rate.
type SpreadPricer interface {
	Instrument
	PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error)
}

var errNilLattice = errors.New("nil lattice")

// prepare builds l if needed and checks that every schedule fits inside it.
func prepare(l *lattice.Lattice, schedules ...schedule.Schedule) error {
	if l == nil {
		return errNilLattice
	}
	if err := l.Build(); err != nil {
		return err
	}
	for _, s := range schedules {
		if err := s.CheckHorizon(l.Steps()); err != nil {
			return err
		}
	}
	return nil
}

func checkSchedule(name string, s schedule.Schedule) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// couponCashflows spreads the per-period coupons over the payment steps, leaving out the final
// payment which belongs in the terminal condition.
func couponCashflows(payments schedule.Schedule, coupons []float64, frequency int) map[int]float64 {
	cfs := make(map[int]float64, len(payments))
	for k, p := range payments[:len(payments)-1] {
		cfs[p.Step] += coupons[k] / float64(frequency)
	}
	return cfs
}
