package instruments

import (
	"fmt"
	"time"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/schedule"
	"github.com/meenmo/hwtree/utils"
)

// DefaultCallPrice is redemption at par.
const DefaultCallPrice = 1.0

// CallableBond is a Bond the issuer may redeem at CallPrice plus accrued interest on any
// exercise step. Accrued interest is 30/360 from the previous payment (or Bond.Start) when the
// points are dated, and lattice time otherwise.
type CallableBond struct {
	Bond      *Bond
	Exercises schedule.Schedule
	CallPrice float64
}

// NewCallableBond checks that every call falls strictly before maturity.
func NewCallableBond(bond *Bond, exercises schedule.Schedule) (*CallableBond, error) {
	if bond == nil {
		return nil, fmt.Errorf("NewCallableBond: nil bond")
	}
	if err := checkSchedule("NewCallableBond: exercises", exercises); err != nil {
		return nil, err
	}
	if last, mat := exercises.Last().Step, bond.Maturity(); last >= mat {
		return nil, fmt.Errorf("NewCallableBond: call step %d not before maturity %d: %w", last, mat, lattice.ErrScheduleMismatch)
	}
	return &CallableBond{Bond: bond, Exercises: exercises, CallPrice: DefaultCallPrice}, nil
}

// Price is the root value of the callable tree.
func (c *CallableBond) Price(l *lattice.Lattice) (float64, error) {
	return c.PriceWithSpread(l, 0)
}

// PriceWithSpread discounts at the short rate plus spread; with a market price this yields the
// option-adjusted spread through SolveSpread.
func (c *CallableBond) PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error) {
	if err := prepare(l, c.Bond.Payments, c.Exercises); err != nil {
		return 0, fmt.Errorf("CallableBond: %w", err)
	}
	bt, err := c.Bond.Tree(l, spread)
	if err != nil {
		return 0, fmt.Errorf("CallableBond: %w", err)
	}

	m := c.Exercises.Last().Step + 1
	cfs := couponCashflows(c.Bond.Payments, c.Bond.Coupons, c.Bond.Frequency)
	for s := range cfs {
		if s >= m {
			delete(cfs, s)
		}
	}

	call := make(map[int]float64, len(c.Exercises))
	for _, ex := range c.Exercises {
		call[ex.Step] = c.CallPrice + c.accrued(ex, l.Dt())
	}

	tree, err := l.Induct(lattice.Induction{
		Final:         m,
		Terminal:      func(j int) float64 { return bt.At(m, j) },
		Cashflows:     cfs,
		ExerciseSteps: c.Exercises.Steps(),
		ExerciseValue: func(i, _ int) float64 { return call[i] },
		Rule:          lattice.IssuerOptimal,
		Spread:        spread,
	})
	if err != nil {
		return 0, fmt.Errorf("CallableBond: %w", err)
	}
	return tree.Root(), nil
}

// accrued is the coupon owed on a call at ex. On a payment step it is the full coupon, which
// the continuation value also carries.
func (c *CallableBond) accrued(ex schedule.Point, dt float64) float64 {
	b := c.Bond
	if b.Payments.Contains(ex.Step) {
		return b.CouponAt(ex.Step)
	}
	// the period containing ex pays at the first payment after it
	next := 0
	for next < len(b.Payments) && b.Payments[next].Step < ex.Step {
		next++
	}
	rate := b.Coupons[next]

	prev, ok := b.Payments.Before(ex.Step)
	var start time.Time
	startStep := 0
	if ok {
		start, startStep = prev.Date, prev.Step
	} else {
		start = b.Start
	}
	if !start.IsZero() && !ex.Date.IsZero() {
		return rate * utils.YearFraction(start, ex.Date, utils.Thirty)
	}
	return rate * float64(ex.Step-startStep) * dt
}
