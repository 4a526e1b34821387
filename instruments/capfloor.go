package instruments

import (
	"errors"
	"fmt"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/payoff"
	"github.com/meenmo/hwtree/schedule"
	"github.com/meenmo/hwtree/utils"
)

// CapFloorlet is a single caplet or floorlet: the rate fixes at Reset and pays at Pay.
// It is valued as an option on the zero-coupon bond maturing at Pay.
type CapFloorlet struct {
	Reset  schedule.Point
	Pay    schedule.Point
	Payoff payoff.RatePayoff
	// Accrual overrides the ACT/360 year fraction between the reset and payment dates.
	Accrual float64
}

// NewCapFloorlet checks that the reset precedes the payment.
func NewCapFloorlet(reset, pay schedule.Point, po payoff.RatePayoff) (*CapFloorlet, error) {
	if po == nil {
		return nil, errors.New("NewCapFloorlet: nil payoff")
	}
	if err := checkSchedule("NewCapFloorlet", schedule.Schedule{reset, pay}); err != nil {
		return nil, err
	}
	return &CapFloorlet{Reset: reset, Pay: pay, Payoff: po}, nil
}

// Tau is the accrual fraction of the period: the explicit Accrual, ACT/360 between the dates,
// or the lattice time between the steps when the points are undated.
func (c *CapFloorlet) Tau(dt float64) float64 {
	switch {
	case c.Accrual > 0:
		return c.Accrual
	case !c.Reset.Date.IsZero() && !c.Pay.Date.IsZero():
		return utils.YearFraction(c.Reset.Date, c.Pay.Date, utils.Act360)
	default:
		return float64(c.Pay.Step-c.Reset.Step) * dt
	}
}

// Price is the root value of the option tree.
func (c *CapFloorlet) Price(l *lattice.Lattice) (float64, error) {
	return c.PriceWithSpread(l, 0)
}

// PriceWithSpread discounts both the underlying bond and the option at the short rate plus spread.
func (c *CapFloorlet) PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error) {
	if err := prepare(l, schedule.Schedule{c.Reset, c.Pay}); err != nil {
		return 0, fmt.Errorf("CapFloorlet: %w", err)
	}
	zcb, err := (&ZCBond{Maturity: c.Pay}).Tree(l, spread)
	if err != nil {
		return 0, fmt.Errorf("CapFloorlet: %w", err)
	}
	tau := c.Tau(l.Dt())
	m := c.Reset.Step
	tree, err := l.Induct(lattice.Induction{
		Final:    m,
		Terminal: func(j int) float64 { return c.Payoff.Payoff(zcb.At(m, j), tau) },
		Spread:   spread,
	})
	if err != nil {
		return 0, fmt.Errorf("CapFloorlet: %w", err)
	}
	return tree.Root(), nil
}

// Cap is a strip of caplets or floorlets.
type Cap struct {
	Lets []*CapFloorlet
}

// NewCap builds consecutive caplets or floorlets: period k resets at resets[k] and pays at
// resets[k+1], all sharing po.
func NewCap(resets schedule.Schedule, po payoff.RatePayoff) (*Cap, error) {
	if err := checkSchedule("NewCap", resets); err != nil {
		return nil, err
	}
	if len(resets) < 2 {
		return nil, fmt.Errorf("NewCap: need at least two dates, got %d: %w", len(resets), lattice.ErrScheduleMismatch)
	}
	lets := make([]*CapFloorlet, 0, len(resets)-1)
	for k := 0; k+1 < len(resets); k++ {
		let, err := NewCapFloorlet(resets[k], resets[k+1], po)
		if err != nil {
			return nil, err
		}
		lets = append(lets, let)
	}
	return &Cap{Lets: lets}, nil
}

// Price sums the caplet prices.
func (c *Cap) Price(l *lattice.Lattice) (float64, error) {
	return c.PriceWithSpread(l, 0)
}

// PriceWithSpread sums the caplet prices at the given spread.
func (c *Cap) PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error) {
	total := 0.0
	for k, let := range c.Lets {
		v, err := let.PriceWithSpread(l, spread)
		if err != nil {
			return 0, fmt.Errorf("Cap: period %d: %w", k, err)
		}
		total += v
	}
	return total, nil
}
