package slots

import (
	"slotline/models"
	"slotline/utils"
)

// GenerateInput is everything the pure generator needs, pre-digested: the
// caller resolves timezone, weekday rules and reservations; the engine only
// does interval arithmetic.
type GenerateInput struct {
	Date            string
	DurationMinutes int
	BreakMinutes    int
	Source          DaySource
	// IsToday/NowMinutes gate out slots that already started when the target
	// date is the provider's current date.
	IsToday    bool
	NowMinutes int
	// Taken holds the exact intervals removed from offer: confirmed sessions
	// and active blocked slots for this provider and date.
	Taken []models.Slot
}

// Generate emits the bookable slots for one date, ordered by start time.
// Slots are exactly DurationMinutes long, separated by BreakMinutes, and a
// slot that would overrun a window's closing time is never emitted. The
// result is nil when the day is structurally closed.
func Generate(in GenerateInput) []models.Slot {
	if !in.Source.Open() || in.DurationMinutes <= 0 {
		return nil
	}

	taken := make(map[string]struct{}, len(in.Taken))
	for _, t := range in.Taken {
		taken[t.StartTime+"/"+t.EndTime] = struct{}{}
	}

	var out []models.Slot
	step := in.DurationMinutes + in.BreakMinutes
	for _, w := range in.Source.Windows {
		for cursor := w.Start; cursor+in.DurationMinutes <= w.End; cursor += step {
			if in.IsToday && cursor <= in.NowMinutes {
				continue
			}
			start := utils.FormatClock(cursor)
			end := utils.FormatClock(cursor + in.DurationMinutes)
			if _, reserved := taken[start+"/"+end]; reserved {
				continue
			}
			out = append(out, models.Slot{Date: in.Date, StartTime: start, EndTime: end})
		}
	}
	return out
}
