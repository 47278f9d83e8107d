package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlanSlotsMorning(t *testing.T) {
	// Wednesday morning: every slot is available.
	now := time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)
	slots := PlanSlots(now)
	require.Len(t, slots, 5)

	require.Equal(t, time.Date(2026, 1, 7, 11, 0, 0, 0, time.UTC), slots[0].Start)
	require.Equal(t, time.Hour, slots[0].End.Sub(slots[0].Start))

	require.Equal(t, time.Date(2026, 1, 7, 19, 0, 0, 0, time.UTC), slots[1].Start)
	require.Equal(t, 90*time.Minute, slots[1].End.Sub(slots[1].Start))

	require.Equal(t, time.Date(2026, 1, 8, 8, 0, 0, 0, time.UTC), slots[2].Start)
	require.Equal(t, time.Date(2026, 1, 8, 15, 0, 0, 0, time.UTC), slots[3].Start)

	require.Equal(t, time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC), slots[4].Start)
	require.Equal(t, 2*time.Hour, slots[4].End.Sub(slots[4].Start))
}

func TestPlanSlotsOmission(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want int
	}{
		{"afternoon keeps all slots", 16, 5},
		{"evening drops tonight slot", 18, 4},
		{"boundary at 17 drops tonight slot", 17, 4},
		{"late night drops next-hour slot too", 21, 3},
		{"boundary at 20 drops next-hour slot", 20, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 1, 7, tt.hour, 15, 0, 0, time.UTC)
			require.Len(t, PlanSlots(now), tt.want)
		})
	}
}

func TestPlanSlotsNeverInPast(t *testing.T) {
	for day := 5; day < 12; day++ {
		for hour := 0; hour < 24; hour++ {
			now := time.Date(2026, 1, day, hour, 59, 59, 0, time.UTC)
			for i, slot := range PlanSlots(now) {
				require.True(t, slot.Start.After(now),
					"day=%d hour=%d slot=%d start=%s", day, hour, i, slot.Start)
				require.True(t, slot.End.After(slot.Start))
			}
		}
	}
}

func TestPlanSlotsSaturdayRollsToNextWeek(t *testing.T) {
	// 2026-01-10 is a Saturday; the weekend slot must land on the 17th.
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	slots := PlanSlots(now)
	weekend := slots[len(slots)-1]
	require.Equal(t, time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC), weekend.Start)
	require.Equal(t, time.Saturday, weekend.Start.Weekday())
}

func TestPlanSlotsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 45, 12, 0, time.UTC)
	require.Equal(t, PlanSlots(now), PlanSlots(now))
}
