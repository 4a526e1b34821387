package utils

import (
	"fmt"
	"strings"
	"time"
)

// Day count conventions understood by YearFraction.
const (
	Act360  = "ACT/360"
	Act365F = "ACT/365F"
	Thirty  = "30/360"
	ThirtyE = "30E/360"
)

// YearFraction computes year fraction between two dates using the specified day count convention.
// Unknown conventions fall back to ACT/365F.
func YearFraction(start, end time.Time, convention string) float64 {
	switch NormalizeDayCount(convention) {
	case Act360:
		return Days(start, end) / 360.0
	case Thirty:
		return thirty360(start, end, false)
	case ThirtyE:
		return thirty360(start, end, true)
	default:
		return Days(start, end) / 365.0
	}
}

// NormalizeDayCount maps common spellings onto the constants above.
func NormalizeDayCount(convention string) string {
	switch strings.ToUpper(strings.TrimSpace(convention)) {
	case "ACT/360", "A360", "ACTUAL/360":
		return Act360
	case "30/360", "30U/360", "BOND":
		return Thirty
	case "30E/360", "EUROBOND":
		return ThirtyE
	default:
		return Act365F
	}
}

// ValidateDayCount reports whether convention is one YearFraction handles explicitly.
func ValidateDayCount(convention string) error {
	switch strings.ToUpper(strings.TrimSpace(convention)) {
	case "ACT/360", "A360", "ACTUAL/360", "ACT/365F", "ACT/365", "A365F",
		"30/360", "30U/360", "BOND", "30E/360", "EUROBOND":
		return nil
	}
	return fmt.Errorf("unsupported day count %q", convention)
}

// thirty360 implements 30/360 US (bond basis) and 30E/360 (Eurobond basis).
func thirty360(start, end time.Time, european bool) float64 {
	d1, d2 := start.Day(), end.Day()
	if d1 > 30 {
		d1 = 30
	}
	if european {
		if d2 > 30 {
			d2 = 30
		}
	} else if d2 > 30 && d1 == 30 {
		d2 = 30
	}
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}
