// Package payoff defines the exercise payoffs used by lattice instruments.
//
// Prices are zero-coupon or coupon-bond values per unit face observed at a lattice node;
// tau is the accrual fraction of the underlying rate period.
package payoff

import "math"

// RatePayoff pays on a simple rate implied by a zero-coupon bond price over an accrual tau.
type RatePayoff interface {
	Payoff(price, tau float64) float64
}

// BondPayoff pays on the (ex-coupon) value of a unit-face fixed-rate bond.
// StrikeRate is the coupon of that bond.
type BondPayoff interface {
	Payoff(price float64) float64
	StrikeRate() float64
}

// Caplet pays tau*max(L - K, 0) at the end of the period, valued at the reset date,
// where L = (1/price - 1)/tau.
type Caplet struct {
	Strike float64
}

func (c Caplet) Payoff(price, tau float64) float64 {
	return price * tau * math.Max((1/price-1)/tau-c.Strike, 0)
}

// Floorlet pays tau*max(K - L, 0).
type Floorlet struct {
	Strike float64
}

func (f Floorlet) Payoff(price, tau float64) float64 {
	return price * tau * math.Max(f.Strike-(1/price-1)/tau, 0)
}

// Intrinsic is the reset-date value of the forward rate agreement paying tau*(L - K) at the
// end of the period. Caplet minus Floorlet equals Intrinsic for every valid (price, tau).
func Intrinsic(strike, price, tau float64) float64 {
	return price * tau * ((1/price-1)/tau - strike)
}

// PayerSwaption is the right to pay fixed Strike: it is a put on the coupon bond.
type PayerSwaption struct {
	Strike float64
}

func (p PayerSwaption) Payoff(price float64) float64 {
	return math.Max(1-price, 0)
}

func (p PayerSwaption) StrikeRate() float64 {
	return p.Strike
}

// ReceiverSwaption is the right to receive fixed Strike: a call on the coupon bond.
type ReceiverSwaption struct {
	Strike float64
}

func (r ReceiverSwaption) Payoff(price float64) float64 {
	return math.Max(price-1, 0)
}

func (r ReceiverSwaption) StrikeRate() float64 {
	return r.Strike
}
