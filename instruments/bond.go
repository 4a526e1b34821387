package instruments

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/schedule"
)

// DefaultFrequency is semi-annual.
const DefaultFrequency = 2

// Bond is a unit-face fixed coupon bond. Coupons holds the annual rate paid at each payment;
// every payment pays Coupons[k]/Frequency and the last one also returns the face.
type Bond struct {
	Payments  schedule.Schedule
	Coupons   []float64
	Frequency int
	// Start is the accrual start of the first period; used only for accrued interest.
	Start time.Time
}

// FlatCoupons repeats rate n times.
func FlatCoupons(rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rate
	}
	return out
}

// NewBond validates the payment schedule against the coupons. frequency <= 0 means
// DefaultFrequency.
func NewBond(payments schedule.Schedule, coupons []float64, frequency int) (*Bond, error) {
	if err := checkSchedule("NewBond", payments); err != nil {
		return nil, err
	}
	if len(coupons) != len(payments) {
		return nil, fmt.Errorf("NewBond: %d coupons for %d payments: %w", len(coupons), len(payments), lattice.ErrScheduleMismatch)
	}
	for k, c := range coupons {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("NewBond: coupon %d is %v", k, c)
		}
	}
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return &Bond{
		Payments:  payments,
		Coupons:   append([]float64(nil), coupons...),
		Frequency: frequency,
	}, nil
}

// Maturity is the final payment step.
func (b *Bond) Maturity() int { return b.Payments.Last().Step }

// CouponAt is the per-period coupon paid at step, zero off the payment schedule.
func (b *Bond) CouponAt(step int) float64 {
	k := b.Payments.Index(step)
	if k < 0 {
		return 0
	}
	return b.Coupons[k] / float64(b.Frequency)
}

// Price is the root value of the bond tree.
func (b *Bond) Price(l *lattice.Lattice) (float64, error) {
	return b.PriceWithSpread(l, 0)
}

// PriceWithSpread discounts at the short rate plus spread.
func (b *Bond) PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error) {
	tree, err := b.Tree(l, spread)
	if err != nil {
		return 0, err
	}
	return tree.Root(), nil
}

// Tree returns the bond tree. Values at payment steps include that step's coupon.
func (b *Bond) Tree(l *lattice.Lattice, spread float64) (*lattice.Tree, error) {
	if err := prepare(l, b.Payments); err != nil {
		return nil, fmt.Errorf("Bond: %w", err)
	}
	last := len(b.Payments) - 1
	redemption := 1 + b.Coupons[last]/float64(b.Frequency)
	tree, err := l.Induct(lattice.Induction{
		Final:     b.Maturity(),
		Terminal:  func(int) float64 { return redemption },
		Cashflows: couponCashflows(b.Payments, b.Coupons, b.Frequency),
		Spread:    spread,
	})
	if err != nil {
		return nil, fmt.Errorf("Bond: %w", err)
	}
	return tree, nil
}
