package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/store"
)

// EventDuration is the fixed length of every calendar event. Jobs carry no
// duration of their own.
const EventDuration = time.Hour

// Event is a scheduled job placed on the calendar grid.
type Event struct {
	JobID       int64       `json:"jobId"`
	Title       string      `json:"title"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	StoreID     int64       `json:"storeId"`
	StoreName   string      `json:"storeName"`
	Flag        joblog.Flag `json:"flag"`
	Description string      `json:"description"`
	CreatedBy   string      `json:"createdBy"`
	Job         *joblog.Job `json:"-"`
}

// Skipped records a scheduled job whose date or time could not be parsed.
type Skipped struct {
	JobID int64
	Err   error
}

// Projection is the result of placing jobs on the calendar.
type Projection struct {
	Events  []Event
	Skipped []Skipped
}

// Project turns jobs into calendar events in loc. Jobs without both a date
// and a time are left out. A job with a malformed date or time is reported
// in Skipped and does not affect the others.
func Project(jobs []*joblog.Job, stores store.NameIndex, loc *time.Location) Projection {
	if loc == nil {
		loc = time.UTC
	}
	p := Projection{Events: []Event{}}
	for _, j := range jobs {
		if j == nil || !j.IsScheduled() {
			continue
		}
		start, err := time.ParseInLocation(joblog.DateLayout+" "+joblog.TimeLayout,
			*j.LogDate+" "+*j.LogTime, loc)
		if err != nil {
			p.Skipped = append(p.Skipped, Skipped{
				JobID: j.ID,
				Err:   fmt.Errorf("parse %q %q: %w", *j.LogDate, *j.LogTime, err),
			})
			continue
		}
		p.Events = append(p.Events, Event{
			JobID:       j.ID,
			Title:       j.Description,
			Start:       start,
			End:         start.Add(EventDuration),
			StoreID:     j.StoreID,
			StoreName:   stores.Name(j.StoreID),
			Flag:        j.Flag,
			Description: j.Description,
			CreatedBy:   j.CreatedBy,
			Job:         j,
		})
	}
	sort.SliceStable(p.Events, func(a, b int) bool {
		ea, eb := p.Events[a], p.Events[b]
		if !ea.Start.Equal(eb.Start) {
			return ea.Start.Before(eb.Start)
		}
		return ea.JobID < eb.JobID
	})
	return p
}
