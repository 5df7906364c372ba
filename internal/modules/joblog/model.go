package joblog

import (
	"fmt"
	"time"
)

// Layouts for the scheduled date and time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Flag is a job's priority tag, used for filtering and styling.
type Flag string

const (
	FlagNormal       Flag = "normal"
	FlagUrgent       Flag = "urgent"
	FlagLongStanding Flag = "long_standing"
)

// Valid reports whether f is one of the three known flags.
func (f Flag) Valid() bool {
	switch f {
	case FlagNormal, FlagUrgent, FlagLongStanding:
		return true
	}
	return false
}

// Category is the kind of maintenance work.
type Category string

const (
	CategoryEquipment  Category = "equipment"
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryBuilding   Category = "building"
	CategoryCleaning   Category = "cleaning"
	CategoryOther      Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEquipment, CategoryPlumbing, CategoryElectrical,
		CategoryBuilding, CategoryCleaning, CategoryOther:
		return true
	}
	return false
}

// Job is a maintenance task logged against one store. LogDate and LogTime
// are nil when absent.
type Job struct {
	ID          int64      `json:"id"`
	StoreID     int64      `json:"storeId"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Flag        Flag       `json:"flag"`
	CreatedBy   string     `json:"createdBy"`
	LogDate     *string    `json:"logDate"`
	LogTime     *string    `json:"logTime"`
	Attachments []string   `json:"attachments"`
	Comments    []*Comment `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsScheduled reports whether the job carries both a date and a time and
// therefore belongs on the calendar.
func (j *Job) IsScheduled() bool {
	return j.LogDate != nil && j.LogTime != nil
}

// Slot returns the job's current date and time.
func (j *Job) Slot() Slot {
	return Slot{LogDate: copyString(j.LogDate), LogTime: copyString(j.LogTime)}
}

// Clone returns a copy of j that shares no pointers with it.
func (j *Job) Clone() *Job {
	c := *j
	c.LogDate = copyString(j.LogDate)
	c.LogTime = copyString(j.LogTime)
	if j.Attachments != nil {
		c.Attachments = append([]string(nil), j.Attachments...)
	}
	if j.Comments != nil {
		c.Comments = make([]*Comment, len(j.Comments))
		for i, cm := range j.Comments {
			cc := *cm
			cc.MentionedUsers = append([]int64(nil), cm.MentionedUsers...)
			c.Comments[i] = &cc
		}
	}
	return &c
}

// Slot is a scheduled date and time; nil fields are cleared.
type Slot struct {
	LogDate *string `json:"logDate"`
	LogTime *string `json:"logTime"`
}

// NewSlot builds a slot from non-empty date and time strings.
func NewSlot(date, clock string) Slot {
	return Slot{LogDate: &date, LogTime: &clock}
}

// Cleared reports whether the slot unschedules a job.
func (s Slot) Cleared() bool {
	return s.LogDate == nil && s.LogTime == nil
}

// Validate checks the date and time layouts of any set fields.
func (s Slot) Validate() error {
	if s.LogDate != nil {
		if _, err := parseExact(DateLayout, *s.LogDate); err != nil {
			return invalidf("logDate must be YYYY-MM-DD, got %q", *s.LogDate)
		}
	}
	if s.LogTime != nil {
		if _, err := parseExact(TimeLayout, *s.LogTime); err != nil {
			return invalidf("logTime must be HH:MM, got %q", *s.LogTime)
		}
	}
	return nil
}

// parseExact parses v with layout and rejects values that do not format
// back to v, such as "9:15" for "15:04".
func parseExact(layout, v string) (time.Time, error) {
	t, err := time.Parse(layout, v)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(layout) != v {
		return time.Time{}, fmt.Errorf("%q is not in %s form", v, layout)
	}
	return t, nil
}

// Comment is a note left on a job, optionally mentioning staff.
type Comment struct {
	ID             int64     `json:"id"`
	JobID          int64     `json:"jobId"`
	AuthorID       int64     `json:"authorId"`
	AuthorName     string    `json:"authorName"`
	Body           string    `json:"comment"`
	MentionedUsers []int64   `json:"mentionedUsers"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListFilter narrows a job query. AllStores overrides StoreID.
type ListFilter struct {
	StoreID     int64
	AllStores   bool
	Flag        Flag
	Unscheduled bool
}

// CreateJobRequest is the payload for logging a new job.
type CreateJobRequest struct {
	StoreID     int64    `json:"storeId"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Flag        string   `json:"flag,omitempty"`
	LogDate     *string  `json:"logDate,omitempty"`
	LogTime     *string  `json:"logTime,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// PatchRequest is the partial update accepted by PATCH /jobs/{id}.
// A field left out of the body is unchanged; an explicit null clears it.
type PatchRequest struct {
	LogDate OptionalString `json:"logDate"`
	LogTime OptionalString `json:"logTime"`
}

// FlagRequest is the payload for re-flagging a job.
type FlagRequest struct {
	Flag string `json:"flag"`
}

// CommentRequest is the payload for POST /jobs/{id}/comments.
type CommentRequest struct {
	Comment        string  `json:"comment"`
	MentionedUsers []int64 `json:"mentionedUsers"`
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
