package joblog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/cache"
	"github.com/Essateric/chaiiwala-sub001/internal/metrics"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

// cacheNamespace is bumped by every successful mutation.
const cacheNamespace = "jobs"

// Service defines job log business logic. Every call is made on behalf of
// an explicit principal.
type Service interface {
	ListJobs(ctx context.Context, p access.Principal, storeID int64, flag Flag) ([]*Job, error)
	ListUnscheduled(ctx context.Context, p access.Principal) ([]*Job, error)
	GetJob(ctx context.Context, p access.Principal, id int64) (*Job, error)
	CreateJob(ctx context.Context, p access.Principal, req CreateJobRequest) (*Job, error)
	Reschedule(ctx context.Context, p access.Principal, id int64, patch PatchRequest) (*Job, error)
	MoveToTomorrow(ctx context.Context, p access.Principal, id int64) (*Job, error)
	UpdateFlag(ctx context.Context, p access.Principal, id int64, req FlagRequest) (*Job, error)
	ListComments(ctx context.Context, p access.Principal, id int64) ([]*Comment, error)
	AddComment(ctx context.Context, p access.Principal, id int64, req CommentRequest) (*Comment, error)
}

// Options configures a Service. Zero values select working defaults.
type Options struct {
	Cache           cache.Cache
	CacheTTL        time.Duration
	Metrics         metrics.Sink
	Now             func() time.Time
	Location        *time.Location
	DefaultMoveTime string
}

type service struct {
	repo            Repository
	cache           cache.Cache
	cacheTTL        time.Duration
	metrics         metrics.Sink
	now             func() time.Time
	loc             *time.Location
	defaultMoveTime string
}

func NewService(repo Repository, opts Options) Service {
	s := &service{
		repo:            repo,
		cache:           opts.Cache,
		cacheTTL:        opts.CacheTTL,
		metrics:         opts.Metrics,
		now:             opts.Now,
		loc:             opts.Location,
		defaultMoveTime: opts.DefaultMoveTime,
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNoopSink()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.defaultMoveTime == "" {
		s.defaultMoveTime = DefaultMoveTime
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = 5 * time.Minute
	}
	return s
}

func (s *service) ListJobs(ctx context.Context, p access.Principal, storeID int64, flag Flag) ([]*Job, error) {
	if flag != "" && !flag.Valid() {
		return nil, invalidf("unknown flag %q", flag)
	}
	scope, all := access.Scope(p, storeID)
	if !all && scope == 0 {
		// Store-bound role without a store: nothing is visible.
		return []*Job{}, nil
	}
	return s.list(ctx, ListFilter{StoreID: scope, AllStores: all, Flag: flag})
}

func (s *service) ListUnscheduled(ctx context.Context, p access.Principal) ([]*Job, error) {
	if !access.ShowsUnscheduledPanel(p.Role) {
		return nil, fmt.Errorf("%w: unscheduled jobs are only listed for maintenance", ErrForbidden)
	}
	scope, all := access.Scope(p, 0)
	return s.list(ctx, ListFilter{StoreID: scope, AllStores: all, Unscheduled: true})
}

func (s *service) GetJob(ctx context.Context, p access.Principal, id int64) (*Job, error) {
	job, err := s.visibleJob(ctx, p, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*Comment{}
	}
	job.Comments = comments
	return job, nil
}

func (s *service) CreateJob(ctx context.Context, p access.Principal, req CreateJobRequest) (*Job, error) {
	if !access.CanCreate(p.Role) {
		return nil, fmt.Errorf("%w: role %q cannot log jobs", ErrForbidden, p.Role)
	}

	storeID := req.StoreID
	if p.Role == access.RoleStore {
		if p.StoreID == 0 {
			return nil, fmt.Errorf("%w: no store bound to this account", ErrForbidden)
		}
		storeID = p.StoreID
	}
	if storeID <= 0 {
		return nil, invalidf("storeId is required")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalidf("description is required")
	}
	category := Category(strings.ToLower(strings.TrimSpace(req.Category)))
	if !category.Valid() {
		return nil, invalidf("unknown category %q", req.Category)
	}
	flag := FlagNormal
	if req.Flag != "" {
		flag = Flag(strings.ToLower(strings.TrimSpace(req.Flag)))
		if !flag.Valid() {
			return nil, invalidf("unknown flag %q", req.Flag)
		}
	}
	slot := Slot{LogDate: blankToNil(req.LogDate), LogTime: blankToNil(req.LogTime)}
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	var attachments []string
	for _, a := range req.Attachments {
		if a = strings.TrimSpace(a); a != "" {
			attachments = append(attachments, a)
		}
	}
	if attachments == nil {
		attachments = []string{}
	}

	job := &Job{
		StoreID:     storeID,
		Description: description,
		Category:    category,
		Flag:        flag,
		CreatedBy:   p.Name,
		LogDate:     slot.LogDate,
		LogTime:     slot.LogTime,
		Attachments: attachments,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Printf("joblog: job %d logged for store %d by %s", job.ID, job.StoreID, p.Name)
	return job, nil
}

func (s *service) Reschedule(ctx context.Context, p access.Principal, id int64, patch PatchRequest) (*Job, error) {
	if patch.Empty() {
		return nil, invalidf("logDate or logTime is required")
	}
	job, err := s.editableJob(ctx, p, id)
	if err != nil {
		return nil, err
	}
	slot := patch.Apply(job.Slot())
	kind := metrics.KindSlot
	if slot.Cleared() {
		kind = metrics.KindUnschedule
	}
	return s.writeSlot(ctx, p, job, slot, kind)
}

func (s *service) MoveToTomorrow(ctx context.Context, p access.Principal, id int64) (*Job, error) {
	job, err := s.editableJob(ctx, p, id)
	if err != nil {
		return nil, err
	}
	slot := TomorrowSlot(s.now(), s.loc, job.Slot(), s.defaultMoveTime)
	return s.writeSlot(ctx, p, job, slot, metrics.KindTomorrow)
}

func (s *service) UpdateFlag(ctx context.Context, p access.Principal, id int64, req FlagRequest) (*Job, error) {
	flag := Flag(strings.ToLower(strings.TrimSpace(req.Flag)))
	if !flag.Valid() {
		return nil, invalidf("unknown flag %q", req.Flag)
	}
	if _, err := s.editableJob(ctx, p, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFlag(ctx, id, flag); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListComments(ctx context.Context, p access.Principal, id int64) ([]*Comment, error) {
	if _, err := s.visibleJob(ctx, p, id); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*Comment{}
	}
	return comments, nil
}

func (s *service) AddComment(ctx context.Context, p access.Principal, id int64, req CommentRequest) (*Comment, error) {
	body := strings.TrimSpace(req.Comment)
	if body == "" {
		return nil, invalidf("comment is required")
	}
	mentions, err := dedupeMentions(req.MentionedUsers)
	if err != nil {
		return nil, err
	}
	if _, err := s.editableJob(ctx, p, id); err != nil {
		return nil, err
	}
	c := &Comment{
		JobID:          id,
		AuthorID:       p.UserID,
		AuthorName:     p.Name,
		Body:           body,
		MentionedUsers: mentions,
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.metrics.CommentPosted()
	return c, nil
}

// visibleJob loads a job, hiding it as not found when p may not see it.
func (s *service) visibleJob(ctx context.Context, p access.Principal, id int64) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Visible(p, job.StoreID) {
		return nil, ErrNotFound
	}
	return job, nil
}

func (s *service) editableJob(ctx context.Context, p access.Principal, id int64) (*Job, error) {
	job, err := s.visibleJob(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(p, job.StoreID) {
		return nil, fmt.Errorf("%w: role %q cannot edit jobs for store %d", ErrForbidden, p.Role, job.StoreID)
	}
	return job, nil
}

func (s *service) writeSlot(ctx context.Context, p access.Principal, job *Job, slot Slot, kind string) (*Job, error) {
	if err := slot.Validate(); err != nil {
		s.metrics.RescheduleCompleted(kind, err)
		return nil, err
	}
	if err := s.repo.UpdateSchedule(ctx, job.ID, slot); err != nil {
		s.metrics.RescheduleCompleted(kind, err)
		return nil, err
	}
	s.invalidate(ctx)

	updated, err := s.repo.GetByID(ctx, job.ID)
	s.metrics.RescheduleCompleted(kind, err)
	if err != nil {
		return nil, err
	}
	log.Printf("joblog: job %d %s %s -> %s by %s", job.ID, kind,
		formatSlot(job.Slot()), formatSlot(updated.Slot()), p.Name)
	return updated, nil
}

// list reads through the shared cache. Cache failures fall back to the
// repository.
func (s *service) list(ctx context.Context, filter ListFilter) ([]*Job, error) {
	if s.cache == nil {
		s.metrics.JobsListed(false)
		return s.fetch(ctx, filter)
	}

	gen, err := s.cache.Generation(ctx, cacheNamespace)
	if err != nil {
		s.cacheFailed("generation", err)
		s.metrics.JobsListed(false)
		return s.fetch(ctx, filter)
	}
	key := listKey(gen, filter)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var jobs []*Job
		if jerr := json.Unmarshal(raw, &jobs); jerr == nil {
			s.metrics.JobsListed(true)
			return jobs, nil
		}
		log.Printf("joblog: dropping undecodable cache entry %s", key)
	case !errors.Is(err, cache.ErrMiss):
		s.cacheFailed("get", err)
	}

	s.metrics.JobsListed(false)
	jobs, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(jobs); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.cacheFailed("set", err)
		}
	}
	return jobs, nil
}

func (s *service) fetch(ctx context.Context, filter ListFilter) ([]*Job, error) {
	jobs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	return jobs, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx, cacheNamespace); err != nil {
		s.cacheFailed("bump", err)
	}
}

func (s *service) cacheFailed(op string, err error) {
	log.Printf("joblog: cache %s failed, bypassing: %v", op, err)
	s.metrics.CacheError(op)
}

// listKey identifies a list query: jobs:v{generation}:{scope}:{flag}.
func listKey(gen int64, f ListFilter) string {
	scope := "all"
	if !f.AllStores {
		scope = fmt.Sprintf("store-%d", f.StoreID)
	}
	flag := "any"
	if f.Flag != "" {
		flag = string(f.Flag)
	}
	key := fmt.Sprintf("%s:v%d:%s:%s", cacheNamespace, gen, scope, flag)
	if f.Unscheduled {
		key += ":unscheduled"
	}
	return key
}

func formatSlot(s Slot) string {
	if s.LogDate == nil && s.LogTime == nil {
		return "unscheduled"
	}
	date, clock := "-", "-"
	if s.LogDate != nil {
		date = *s.LogDate
	}
	if s.LogTime != nil {
		clock = *s.LogTime
	}
	return date + " " + clock
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
