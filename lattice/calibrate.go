package lattice

import (
	"fmt"
	"math"
)

// calibrate runs the forward induction over Arrow-Debreu state prices. For each step the drift
// has the closed form alpha_i = ln(S_i / P(i+1)) / dt with S_i = sum_j Q(i,j) exp(-j dR dt).
func (l *Lattice) calibrate() (*calibration, error) {
	if err := l.checkCurve(); err != nil {
		return nil, err
	}

	n := l.geo.params.N
	dt := l.geo.dt
	size := n * n
	cal := &calibration{
		alphas:      make([]float64, n),
		rates:       make([]float64, size),
		discounts:   make([]float64, size),
		statePrices: make([]float64, size),
	}

	// exp(-j dR dt) for j in [-N, N]
	shift := make([]float64, 2*n+1)
	for j := -n; j <= n; j++ {
		shift[j+n] = math.Exp(-float64(j) * l.geo.dR * dt)
	}

	alpha0 := -math.Log(l.discounts[1]) / dt
	cal.alphas[0] = alpha0
	cal.statePrices[node(0, 0)] = 1
	cal.rates[node(0, 0)] = alpha0
	cal.discounts[node(0, 0)] = math.Exp(-alpha0 * dt)

	for i := 1; i < n; i++ {
		err := l.forEachState(i, func(j int) error {
			q := 0.0
			for k := max(j-2, -(i - 1)); k <= min(j+2, i-1); k++ {
				q += cal.statePrices[node(i-1, k)] * l.geo.Prob(k, j) * cal.discounts[node(i-1, k)]
			}
			if math.IsNaN(q) || q < 0 {
				return fmt.Errorf("state price at node (%d, %d) is %v (%s): %w", i, j, q, l.geo.params, ErrCalibration)
			}
			cal.statePrices[node(i, j)] = q
			return nil
		})
		if err != nil {
			return nil, err
		}

		s := 0.0
		for j := -i; j <= i; j++ {
			s += cal.statePrices[node(i, j)] * shift[j+n]
		}
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return nil, fmt.Errorf("state price sum at step %d is %v (%s): %w", i, s, l.geo.params, ErrCalibration)
		}
		alpha := math.Log(s/l.discounts[i+1]) / dt
		if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			return nil, fmt.Errorf("drift at step %d is %v: %w", i, alpha, ErrCalibration)
		}
		cal.alphas[i] = alpha

		if err := l.forEachState(i, func(j int) error {
			r := alpha + float64(j)*l.geo.dR
			cal.rates[node(i, j)] = r
			cal.discounts[node(i, j)] = math.Exp(-r * dt)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return cal, nil
}
