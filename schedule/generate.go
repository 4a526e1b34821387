package schedule

import (
	"fmt"
	"time"

	"github.com/meenmo/hwtree/calendar"
	"github.com/meenmo/hwtree/utils"
)

// stubDays is the largest front stub kept as its own period; shorter ones merge into the next.
const stubDays = 7

// Period is one coupon period with business-day adjusted dates.
type Period struct {
	Start time.Time
	End   time.Time
	// Accrual is the year fraction of the period under the requested day count.
	Accrual float64
}

// Generate rolls a regular coupon schedule backward from maturity every freqMonths months,
// producing a front stub when the term is not a whole number of periods. Dates are adjusted
// Modified Following on cal.
func Generate(effective, maturity time.Time, freqMonths int, cal calendar.CalendarID, dayCount string) ([]Period, error) {
	if !maturity.After(effective) {
		return nil, fmt.Errorf("Generate: maturity %s not after effective %s",
			maturity.Format(utils.DateLayout), effective.Format(utils.DateLayout))
	}
	if freqMonths <= 0 || 12%freqMonths != 0 {
		return nil, fmt.Errorf("Generate: unsupported frequency of %d months", freqMonths)
	}
	if dayCount != "" {
		if err := utils.ValidateDayCount(dayCount); err != nil {
			return nil, fmt.Errorf("Generate: %w", err)
		}
	}

	var unadjusted []time.Time
	for k := 0; ; k++ {
		d := utils.AddMonth(maturity, -k*freqMonths)
		if !d.After(effective) {
			break
		}
		unadjusted = append([]time.Time{d}, unadjusted...)
	}
	if len(unadjusted) > 1 && utils.Days(effective, unadjusted[0]) <= stubDays {
		unadjusted = unadjusted[1:]
	}
	unadjusted = append([]time.Time{effective}, unadjusted...)

	periods := make([]Period, 0, len(unadjusted)-1)
	for i := 0; i < len(unadjusted)-1; i++ {
		start := calendar.Adjust(cal, unadjusted[i])
		end := calendar.Adjust(cal, unadjusted[i+1])
		periods = append(periods, Period{
			Start:   start,
			End:     end,
			Accrual: utils.YearFraction(start, end, dayCount),
		})
	}
	return periods, nil
}

// PaymentDates returns the end date of every period.
func PaymentDates(periods []Period) []time.Time {
	out := make([]time.Time, len(periods))
	for i, p := range periods {
		out[i] = p.End
	}
	return out
}
