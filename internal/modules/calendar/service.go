package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/metrics"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/store"
)

// ErrInvalidQuery is returned for malformed calendar query parameters.
var ErrInvalidQuery = errors.New("invalid calendar query")

// Query holds the raw calendar request parameters. Empty fields take the
// principal's defaults.
type Query struct {
	View    string
	Mode    string
	Date    string
	StoreID int64
}

// View is the calendar page model. Date is echoed back as the navigation
// anchor; it never filters events.
type View struct {
	ViewState
	Notice      string        `json:"notice,omitempty"`
	Date        string        `json:"date"`
	Events      []Event       `json:"events"`
	Unscheduled []*joblog.Job `json:"unscheduled,omitempty"`
	CanDrag     bool          `json:"canDrag"`
}

// Service builds calendar views.
type Service interface {
	View(ctx context.Context, p access.Principal, q Query) (*View, error)
}

type service struct {
	jobs    joblog.Service
	stores  store.Service
	metrics metrics.Sink
	now     func() time.Time
	loc     *time.Location
}

func NewService(jobs joblog.Service, stores store.Service, sink metrics.Sink, now func() time.Time, loc *time.Location) Service {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{jobs: jobs, stores: stores, metrics: sink, now: now, loc: loc}
}

func (s *service) View(ctx context.Context, p access.Principal, q Query) (*View, error) {
	state, notice, err := s.resolveState(p.Role, q)
	if err != nil {
		return nil, err
	}
	date, err := s.resolveDate(q.Date)
	if err != nil {
		return nil, err
	}

	// Visibility is applied by the job query, before anything is projected.
	jobs, err := s.jobs.ListJobs(ctx, p, q.StoreID, "")
	if err != nil {
		return nil, err
	}
	names, err := s.stores.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store names: %w", err)
	}

	proj := Project(jobs, names, s.loc)
	for _, sk := range proj.Skipped {
		log.Printf("calendar: skipping job %d: %v", sk.JobID, sk.Err)
	}
	s.metrics.ProjectionCompleted(len(proj.Events), len(proj.Skipped))

	v := &View{
		ViewState: state,
		Notice:    notice,
		Date:      date,
		Events:    proj.Events,
		CanDrag:   access.CanDrag(p.Role),
	}
	if access.ShowsUnscheduledPanel(p.Role) {
		pool, err := s.jobs.ListUnscheduled(ctx, p)
		if err != nil {
			return nil, err
		}
		v.Unscheduled = pool
	}
	return v, nil
}

func (s *service) resolveState(role access.Role, q Query) (ViewState, string, error) {
	state := InitialView(role)
	var notice string
	if q.View != "" {
		g, err := ParseGranularity(q.View)
		if err != nil {
			return state, "", fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		state, notice, err = state.SelectGranularity(role, g)
		if err != nil {
			return state, "", fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		if notice != "" {
			s.metrics.ViewRedirected(string(g), string(state.Granularity))
		}
	}
	if q.Mode != "" {
		m, err := ParseMode(q.Mode)
		if err != nil {
			return state, "", fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		state = state.WithMode(m)
	}
	return state, notice, nil
}

func (s *service) resolveDate(raw string) (string, error) {
	if raw == "" {
		return s.now().In(s.loc).Format(joblog.DateLayout), nil
	}
	d, err := time.ParseInLocation(joblog.DateLayout, raw, s.loc)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidQuery, raw)
	}
	return d.Format(joblog.DateLayout), nil
}
