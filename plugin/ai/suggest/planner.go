package suggest

import (
	"time"
)

// TimeSlot is a candidate study window. Slots are computed fresh per
// request and never persisted.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// PlanSlots computes the ordered candidate study slots for the next week,
// favoring proximity to now. The sequence is fixed:
//
//	A: next full hour, 1h (only before 20:00)
//	B: today 19:00-20:30 (only before 17:00)
//	C: tomorrow 08:00-09:30
//	D: tomorrow 15:00-16:30
//	E: next Saturday 10:00-12:00 (always strictly in the future, even on a Saturday)
//
// Unavailable slots are omitted, never reordered. The result is
// deterministic for a given now and involves no I/O.
func PlanSlots(now time.Time) []TimeSlot {
	loc := now.Location()
	slots := []TimeSlot{}

	if now.Hour() < 20 {
		start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, loc)
		slots = append(slots, TimeSlot{Start: start, End: start.Add(time.Hour)})
	}

	if now.Hour() < 17 {
		start := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, loc)
		slots = append(slots, TimeSlot{Start: start, End: start.Add(90 * time.Minute)})
	}

	tomorrow := now.AddDate(0, 0, 1)
	morning := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 8, 0, 0, 0, loc)
	slots = append(slots, TimeSlot{Start: morning, End: morning.Add(90 * time.Minute)})

	afternoon := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 15, 0, 0, 0, loc)
	slots = append(slots, TimeSlot{Start: afternoon, End: afternoon.Add(90 * time.Minute)})

	daysUntilSaturday := (6 - int(now.Weekday()) + 7) % 7
	if daysUntilSaturday == 0 {
		// On a Saturday the weekend slot still lands next week.
		daysUntilSaturday = 7
	}
	saturday := now.AddDate(0, 0, daysUntilSaturday)
	weekend := time.Date(saturday.Year(), saturday.Month(), saturday.Day(), 10, 0, 0, 0, loc)
	slots = append(slots, TimeSlot{Start: weekend, End: weekend.Add(2 * time.Hour)})

	return slots
}
