package instruments

import (
	"fmt"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/schedule"
)

// ZCBond pays 1 at Maturity.
type ZCBond struct {
	Maturity schedule.Point
}

// NewZCBond returns a zero-coupon bond maturing at step.
func NewZCBond(maturity schedule.Point) (*ZCBond, error) {
	if err := checkSchedule("NewZCBond", schedule.Schedule{maturity}); err != nil {
		return nil, err
	}
	return &ZCBond{Maturity: maturity}, nil
}

// Price is the root value of the bond tree.
func (z *ZCBond) Price(l *lattice.Lattice) (float64, error) {
	return z.PriceWithSpread(l, 0)
}

// PriceWithSpread discounts at the short rate plus spread.
func (z *ZCBond) PriceWithSpread(l *lattice.Lattice, spread float64) (float64, error) {
	tree, err := z.Tree(l, spread)
	if err != nil {
		return 0, err
	}
	return tree.Root(), nil
}

// Tree returns the full bond tree, used as the underlying of caplets.
func (z *ZCBond) Tree(l *lattice.Lattice, spread float64) (*lattice.Tree, error) {
	if err := prepare(l, schedule.Schedule{z.Maturity}); err != nil {
		return nil, fmt.Errorf("ZCBond: %w", err)
	}
	tree, err := l.Induct(lattice.Induction{
		Final:    z.Maturity.Step,
		Terminal: func(int) float64 { return 1 },
		Spread:   spread,
	})
	if err != nil {
		return nil, fmt.Errorf("ZCBond: %w", err)
	}
	return tree, nil
}
