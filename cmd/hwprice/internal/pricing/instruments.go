package pricing

import (
	"fmt"
	"strings"

	"github.com/meenmo/hwtree/config"
	"github.com/meenmo/hwtree/instruments"
	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/payoff"
	"github.com/meenmo/hwtree/schedule"
)

type spreadPricer = instruments.SpreadPricer

func solveSpread(l *lattice.Lattice, inst spreadPricer, target float64) (instruments.SpreadResult, error) {
	return instruments.SolveSpread(l, inst, target)
}

func buildInstrument(cmd string, req Request, cfg config.Config, r resolver) (instruments.Instrument, error) {
	switch cmd {
	case ZCB:
		m, err := r.single("maturity", req.Maturity)
		if err != nil {
			return nil, err
		}
		return instruments.NewZCBond(m)
	case Bond:
		return buildBond(req, cfg, r)
	case CapFloor:
		return buildCapFloorlet(req, r)
	case Swaption:
		return buildSwaption(req, cfg, r)
	case Callable:
		b, err := buildBond(req, cfg, r)
		if err != nil {
			return nil, err
		}
		ex, err := r.schedule("exercises", req.Exercises)
		if err != nil {
			return nil, err
		}
		cb, err := instruments.NewCallableBond(b, ex)
		if err != nil {
			return nil, err
		}
		if req.CallPrice > 0 {
			cb.CallPrice = req.CallPrice
		}
		return cb, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// payments resolves listed payment points or generates them from req.Schedule on the configured
// calendar.
func payments(req Request, cfg config.Config, r resolver) (schedule.Schedule, error) {
	if req.Schedule == nil {
		return r.schedule("payments", req.Payments)
	}
	if len(req.Payments) > 0 {
		return nil, fmt.Errorf("payments and schedule are mutually exclusive")
	}
	if r.grid.Valuation.IsZero() {
		return nil, fmt.Errorf("valuation_date is required with schedule")
	}
	effective, err := parseOptionalDate(req.Schedule.Effective)
	if err != nil {
		return nil, fmt.Errorf("schedule.effective: %w", err)
	}
	maturity, err := parseOptionalDate(req.Schedule.Maturity)
	if err != nil {
		return nil, fmt.Errorf("schedule.maturity: %w", err)
	}
	periods, err := schedule.Generate(effective, maturity, req.Schedule.FrequencyMonths, cfg.CalendarID(), cfg.DayCount)
	if err != nil {
		return nil, err
	}
	s, err := r.grid.Map(schedule.PaymentDates(periods))
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return s, nil
}

func buildBond(req Request, cfg config.Config, r resolver) (*instruments.Bond, error) {
	pay, err := payments(req, cfg, r)
	if err != nil {
		return nil, err
	}
	coupons := instruments.FlatCoupons(req.CouponPct/100, len(pay))
	if len(req.CouponsPct) > 0 {
		coupons = make([]float64, len(req.CouponsPct))
		for i, c := range req.CouponsPct {
			coupons[i] = c / 100
		}
	}
	freq := req.Frequency
	if freq == 0 && req.Schedule != nil && req.Schedule.FrequencyMonths > 0 {
		freq = 12 / req.Schedule.FrequencyMonths
	}
	b, err := instruments.NewBond(pay, coupons, freq)
	if err != nil {
		return nil, err
	}
	start, err := parseOptionalDate(req.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if start.IsZero() && req.Schedule != nil {
		start, _ = parseOptionalDate(req.Schedule.Effective)
	}
	b.Start = start
	return b, nil
}

func buildCapFloorlet(req Request, r resolver) (*instruments.CapFloorlet, error) {
	reset, err := r.single("reset", req.Reset)
	if err != nil {
		return nil, err
	}
	pay, err := r.single("pay", req.Pay)
	if err != nil {
		return nil, err
	}
	var po payoff.RatePayoff
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "", "cap", "caplet":
		po = payoff.Caplet{Strike: req.StrikePct / 100}
	case "floor", "floorlet":
		po = payoff.Floorlet{Strike: req.StrikePct / 100}
	default:
		return nil, fmt.Errorf("invalid type %q (use cap or floor)", req.Type)
	}
	cf, err := instruments.NewCapFloorlet(reset, pay, po)
	if err != nil {
		return nil, err
	}
	cf.Accrual = req.Accrual
	return cf, nil
}

func buildSwaption(req Request, cfg config.Config, r resolver) (*instruments.Swaption, error) {
	pay, err := payments(req, cfg, r)
	if err != nil {
		return nil, err
	}
	ex, err := r.schedule("exercises", req.Exercises)
	if err != nil {
		return nil, err
	}
	var po payoff.BondPayoff
	switch strings.ToUpper(strings.TrimSpace(req.Type)) {
	case "", "PAYER", "PAY":
		po = payoff.PayerSwaption{Strike: req.StrikePct / 100}
	case "RECEIVER", "REC":
		po = payoff.ReceiverSwaption{Strike: req.StrikePct / 100}
	default:
		return nil, fmt.Errorf("invalid type %q (use payer or receiver)", req.Type)
	}
	return instruments.NewSwaption(pay, ex, req.Frequency, po)
}
