package calendar

import "github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"

// ApplyReschedule returns a copy of jobs with job id moved to slot, along
// with the slot it held before. Applying the returned slot undoes the move.
// The input slice and its jobs are left untouched; ok is false when id is
// not in jobs.
func ApplyReschedule(jobs []*joblog.Job, id int64, slot joblog.Slot) (out []*joblog.Job, previous joblog.Slot, ok bool) {
	out = make([]*joblog.Job, len(jobs))
	copy(out, jobs)
	for i, j := range out {
		if j == nil || j.ID != id {
			continue
		}
		moved := j.Clone()
		previous = j.Slot()
		next := copySlot(slot)
		moved.LogDate, moved.LogTime = next.LogDate, next.LogTime
		out[i] = moved
		ok = true
	}
	return out, previous, ok
}

func copySlot(s joblog.Slot) joblog.Slot {
	var c joblog.Slot
	if s.LogDate != nil {
		v := *s.LogDate
		c.LogDate = &v
	}
	if s.LogTime != nil {
		v := *s.LogTime
		c.LogTime = &v
	}
	return c
}
