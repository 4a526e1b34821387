package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meenmo/hwtree/curve"
	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/schedule"
	"github.com/meenmo/hwtree/utils"
)

// Request is the JSON input shared by every command. Each command reads the fields it needs.
//
// Conventions:
// - coupon, strike, flat_rate and zero_rates are in percent (e.g., 2.50 means 2.50%)
// - model a and sigma are decimals (sigma 0.01 is 100bp of short-rate volatility)
// - black_vol is a decimal lognormal volatility (0.20 means 20%)
// - a point is either a lattice step or a date mapped onto the grid from valuation_date
type Request struct {
	ValuationDate string          `json:"valuation_date"`
	Model         *lattice.Params `json:"model"`
	Curve         CurveInput      `json:"curve"`
	Notional      float64         `json:"notional"`

	Maturity  *PointInput    `json:"maturity"`
	Reset     *PointInput    `json:"reset"`
	Pay       *PointInput    `json:"pay"`
	Payments  []PointInput   `json:"payments"`
	Schedule  *ScheduleInput `json:"schedule"`
	Exercises []PointInput   `json:"exercises"`

	CouponPct   float64   `json:"coupon"`
	CouponsPct  []float64 `json:"coupons"`
	Frequency   int       `json:"frequency"`
	Start       string    `json:"start"`
	StrikePct   float64   `json:"strike"`
	Type        string    `json:"type"`
	Accrual     float64   `json:"accrual"`
	CallPrice   float64   `json:"call_price"`
	MarketPrice float64   `json:"market_price"`

	Caps []CapInput `json:"caps"`
}

// CurveInput is either a flat rate or pillars with discount factors or zero rates.
type CurveInput struct {
	FlatRatePct  *float64  `json:"flat_rate"`
	Maturities   []float64 `json:"maturities"`
	Discounts    []float64 `json:"discounts"`
	ZeroRatesPct []float64 `json:"zero_rates"`
}

type PointInput struct {
	Step *int   `json:"step"`
	Date string `json:"date"`
}

// ScheduleInput generates regular payment dates instead of listing them.
type ScheduleInput struct {
	Effective       string `json:"effective"`
	Maturity        string `json:"maturity"`
	FrequencyMonths int    `json:"frequency_months"`
}

// CapInput is one market cap: semi-annual (or Request.Frequency) caplets out to Maturity years,
// quoted as a price per unit notional or a flat Black volatility.
type CapInput struct {
	Maturity  float64 `json:"maturity"`
	StrikePct float64 `json:"strike"`
	Price     float64 `json:"price"`
	BlackVol  float64 `json:"black_vol"`
}

func (c CurveInput) build(horizon float64) (*curve.ZeroCurve, error) {
	if c.FlatRatePct != nil {
		n := int(math.Ceil(horizon))
		return curve.Flat(*c.FlatRatePct/100, math.Max(horizon, 1), max(n, 1)), nil
	}
	if len(c.Maturities) == 0 {
		return nil, fmt.Errorf("curve: flat_rate or maturities is required")
	}
	prices := c.Discounts
	if len(c.ZeroRatesPct) > 0 {
		if len(c.ZeroRatesPct) != len(c.Maturities) {
			return nil, fmt.Errorf("curve: %d zero_rates for %d maturities", len(c.ZeroRatesPct), len(c.Maturities))
		}
		prices = make([]float64, len(c.Maturities))
		for i, r := range c.ZeroRatesPct {
			prices[i] = math.Exp(-r / 100 * c.Maturities[i])
		}
	}
	crv, err := curve.NewZeroCurve(c.Maturities, prices)
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}
	return crv, nil
}

// resolver turns points and dates into lattice steps.
type resolver struct {
	grid schedule.Grid
}

func (r resolver) point(p PointInput) (schedule.Point, error) {
	var out schedule.Point
	if strings.TrimSpace(p.Date) != "" {
		d, err := utils.ParseDate(p.Date)
		if err != nil {
			return out, err
		}
		out.Date = d
	}
	switch {
	case p.Step != nil:
		out.Step = *p.Step
	case !out.Date.IsZero():
		if r.grid.Valuation.IsZero() {
			return out, fmt.Errorf("valuation_date is required to map %s onto the lattice", p.Date)
		}
		step, err := r.grid.StepOf(out.Date)
		if err != nil {
			return out, err
		}
		out.Step = step
	default:
		return out, fmt.Errorf("point needs a step or a date")
	}
	return out, nil
}

func (r resolver) schedule(name string, in []PointInput) (schedule.Schedule, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%s is required", name)
	}
	out := make(schedule.Schedule, 0, len(in))
	for i, p := range in {
		pt, err := r.point(p)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		out = append(out, pt)
	}
	return out, nil
}

func (r resolver) single(name string, in *PointInput) (schedule.Point, error) {
	if in == nil {
		return schedule.Point{}, fmt.Errorf("%s is required", name)
	}
	pt, err := r.point(*in)
	if err != nil {
		return pt, fmt.Errorf("%s: %w", name, err)
	}
	return pt, nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return utils.ParseDate(s)
}
