package joblog

import "time"

// DefaultMoveTime is used by TomorrowSlot when the job has no usable time.
const DefaultMoveTime = "09:00"

// TomorrowSlot returns the slot for the "move to tomorrow" shortcut: the
// calendar day after now in loc, at the job's current time. A missing or
// malformed current time falls back to defaultTime.
func TomorrowSlot(now time.Time, loc *time.Location, current Slot, defaultTime string) Slot {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)

	clock := defaultTime
	if clock == "" {
		clock = DefaultMoveTime
	}
	if current.LogTime != nil {
		if _, err := parseExact(TimeLayout, *current.LogTime); err == nil {
			clock = *current.LogTime
		}
	}
	return NewSlot(tomorrow.Format(DateLayout), clock)
}

// dedupeMentions drops repeated ids, keeping first-seen order.
func dedupeMentions(ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, invalidf("mentioned user ids must be positive, got %d", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
