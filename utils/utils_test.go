package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/hwtree/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		start, end time.Time
		convention string
		want       float64
	}{
		{"act360", date(2024, 1, 1), date(2024, 7, 1), "ACT/360", 182.0 / 360.0},
		{"act365f", date(2024, 1, 1), date(2025, 1, 1), "ACT/365F", 366.0 / 365.0},
		{"30/360 month end", date(2024, 1, 31), date(2024, 7, 31), "30/360", 0.5},
		{"30/360 end on 31st", date(2024, 1, 15), date(2024, 3, 31), "30/360", 76.0 / 360.0},
		{"30E/360 end on 31st", date(2024, 1, 15), date(2024, 3, 31), "30E/360", 75.0 / 360.0},
		{"unknown falls back", date(2024, 1, 1), date(2025, 1, 1), "XYZ", 366.0 / 365.0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tc.want, utils.YearFraction(tc.start, tc.end, tc.convention), 1e-12)
		})
	}
}

func TestValidateDayCount(t *testing.T) {
	t.Parallel()

	require.NoError(t, utils.ValidateDayCount("act/360"))
	require.NoError(t, utils.ValidateDayCount("30E/360"))
	require.Error(t, utils.ValidateDayCount("ACT/ACT"))
}

func TestAddMonth(t *testing.T) {
	t.Parallel()

	require.Equal(t, date(2024, 2, 29), utils.AddMonth(date(2024, 1, 31), 1))
	require.Equal(t, date(2023, 2, 28), utils.AddMonth(date(2023, 1, 31), 1))
	require.Equal(t, date(2023, 11, 29), utils.AddMonth(date(2024, 2, 29), -3))
	require.Equal(t, date(2024, 4, 30), utils.AddMonth(date(2024, 5, 31), -1))
	require.Equal(t, date(2025, 1, 15), utils.AddMonth(date(2024, 1, 15), 12))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := utils.ParseDate("2024-03-04")
	require.NoError(t, err)
	require.Equal(t, date(2024, 3, 4), got)

	_, err = utils.ParseDate("03/04/2024")
	require.Error(t, err)
}
