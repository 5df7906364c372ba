package joblog

import "context"

// Repository defines data access for job logs and their comments.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	List(ctx context.Context, filter ListFilter) ([]*Job, error)
	// UpdateSchedule writes only log_date and log_time.
	UpdateSchedule(ctx context.Context, id int64, slot Slot) error
	UpdateFlag(ctx context.Context, id int64, flag Flag) error

	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, jobID int64) ([]*Comment, error)
}
