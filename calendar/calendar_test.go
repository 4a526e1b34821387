package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/hwtree/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTargetHolidays(t *testing.T) {
	t.Parallel()

	// Easter 2024 is 31 March.
	require.False(t, calendar.IsBusinessDay(calendar.TARGET, date(2024, 3, 29)))
	require.False(t, calendar.IsBusinessDay(calendar.TARGET, date(2024, 4, 1)))
	require.False(t, calendar.IsBusinessDay(calendar.TARGET, date(2024, 12, 25)))
	require.True(t, calendar.IsBusinessDay(calendar.TARGET, date(2024, 3, 28)))
	require.True(t, calendar.IsBusinessDay(calendar.NONE, date(2024, 12, 25)))
}

func TestUSDHolidays(t *testing.T) {
	t.Parallel()

	require.False(t, calendar.IsBusinessDay(calendar.USD, date(2024, 11, 28))) // Thanksgiving
	require.False(t, calendar.IsBusinessDay(calendar.USD, date(2024, 5, 27)))  // Memorial Day
	require.False(t, calendar.IsBusinessDay(calendar.USD, date(2023, 1, 2)))   // New Year observed
	require.True(t, calendar.IsBusinessDay(calendar.USD, date(2024, 11, 29)))
}

func TestAdjust(t *testing.T) {
	t.Parallel()

	// Saturday 30 Nov 2024 rolls back into November under Modified Following.
	require.Equal(t, date(2024, 11, 29), calendar.Adjust(calendar.NONE, date(2024, 11, 30)))
	// Saturday 15 Jun 2024 rolls forward.
	require.Equal(t, date(2024, 6, 17), calendar.Adjust(calendar.NONE, date(2024, 6, 15)))
	// Christmas and Boxing Day on TARGET.
	require.Equal(t, date(2024, 12, 27), calendar.Adjust(calendar.TARGET, date(2024, 12, 25)))
	// Rolling forward past month end falls back to the last business day.
	require.Equal(t, date(2024, 3, 28), calendar.Adjust(calendar.TARGET, date(2024, 3, 29)))
}

func TestParse(t *testing.T) {
	t.Parallel()

	cal, err := calendar.Parse(" target ")
	require.NoError(t, err)
	require.Equal(t, calendar.TARGET, cal)

	cal, err = calendar.Parse("")
	require.NoError(t, err)
	require.Equal(t, calendar.NONE, cal)

	_, err = calendar.Parse("KRW")
	require.Error(t, err)
}
