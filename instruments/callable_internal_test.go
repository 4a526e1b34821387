package instruments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/hwtree/schedule"
)

func TestCallableBond_Accrued(t *testing.T) {
	t.Parallel()

	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	dt := 1.0 / 12
	dated := schedule.Schedule{{Date: d(2024, 7, 1), Step: 6}, {Date: d(2025, 1, 1), Step: 12}}
	b, err := NewBond(dated, []float64{0.04, 0.04}, 2)
	require.NoError(t, err)
	b.Start = d(2024, 1, 1)
	cb := &CallableBond{Bond: b, CallPrice: DefaultCallPrice}

	require.InDelta(t, 0.02, cb.accrued(schedule.Point{Date: d(2024, 7, 1), Step: 6}, dt), 1e-15)
	require.InDelta(t, 0.01, cb.accrued(schedule.Point{Date: d(2024, 10, 1), Step: 9}, dt), 1e-15)
	require.InDelta(t, 0.01, cb.accrued(schedule.Point{Date: d(2024, 4, 1), Step: 3}, dt), 1e-15)

	undated, err := NewBond(schedule.FromSteps(6, 12), []float64{0.04, 0.04}, 2)
	require.NoError(t, err)
	cb.Bond = undated
	require.InDelta(t, 0.01, cb.accrued(schedule.Point{Step: 9}, dt), 1e-15)
	require.InDelta(t, 0.01, cb.accrued(schedule.Point{Step: 3}, dt), 1e-15)
}
