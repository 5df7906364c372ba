// Package binder keeps a client-side job cache in step with reschedule
// requests. Changes are applied to the cache before the request is sent
// and reverted when the request fails.
package binder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
)

var (
	// ErrUnknownJob is returned for a job no cached query holds.
	ErrUnknownJob = errors.New("job is not loaded")
	// ErrNotAllowed is returned when the principal may not edit the job.
	ErrNotAllowed = errors.New("not allowed to reschedule this job")
	// ErrNoGesture is returned by Drop when no move is in progress.
	ErrNoGesture = errors.New("no move in progress")
)

// Persister writes schedule changes to the backend and returns the stored
// job. *client.Client satisfies it.
type Persister interface {
	PersistSlot(ctx context.Context, id int64, slot joblog.Slot) (*joblog.Job, error)
	MoveToTomorrow(ctx context.Context, id int64) (*joblog.Job, error)
}

// Notification is a dismissible failure message for the user.
type Notification struct {
	ID      int64
	JobID   int64
	Message string
	Err     error
	At      time.Time
}

// Options configures a Binder.
type Options struct {
	Now             func() time.Time
	Location        *time.Location
	DefaultMoveTime string
}

// Binder applies reschedules to a QueryCache on behalf of one principal.
type Binder struct {
	principal access.Principal
	cache     *QueryCache
	persist   Persister
	now       func() time.Time
	loc       *time.Location
	moveTime  string

	mu            sync.Mutex
	seq           map[int64]uint64
	inflight      map[int64]int
	confirmed     map[int64]joblog.Slot
	notifications []Notification
	nextNote      int64
	dragging      int64
}

func New(p access.Principal, cache *QueryCache, persist Persister, opts Options) *Binder {
	b := &Binder{
		principal: p,
		cache:     cache,
		persist:   persist,
		now:       opts.Now,
		loc:       opts.Location,
		moveTime:  opts.DefaultMoveTime,
		seq:       make(map[int64]uint64),
		inflight:  make(map[int64]int),
		confirmed: make(map[int64]joblog.Slot),
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	if b.moveTime == "" {
		b.moveTime = joblog.DefaultMoveTime
	}
	return b
}

// Reschedule moves job id to slot. A cleared slot unschedules it.
func (b *Binder) Reschedule(ctx context.Context, id int64, slot joblog.Slot) (*joblog.Job, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	if _, err := b.editable(id); err != nil {
		return nil, err
	}
	return b.run(id, slot, func() (*joblog.Job, error) {
		return b.persist.PersistSlot(ctx, id, slot)
	})
}

// Unschedule clears the date and time of job id, returning it to the pool.
func (b *Binder) Unschedule(ctx context.Context, id int64) (*joblog.Job, error) {
	return b.Reschedule(ctx, id, joblog.Slot{})
}

// MoveToTomorrow shows job id on the next day at its current time, then
// stores whatever the server decides.
func (b *Binder) MoveToTomorrow(ctx context.Context, id int64) (*joblog.Job, error) {
	job, err := b.editable(id)
	if err != nil {
		return nil, err
	}
	guess := joblog.TomorrowSlot(b.now(), b.loc, job.Slot(), b.moveTime)
	return b.run(id, guess, func() (*joblog.Job, error) {
		return b.persist.MoveToTomorrow(ctx, id)
	})
}

func (b *Binder) editable(id int64) (*joblog.Job, error) {
	job, ok := b.cache.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownJob, id)
	}
	if !access.CanEdit(b.principal, job.StoreID) {
		return nil, ErrNotAllowed
	}
	return job, nil
}

// run applies slot optimistically, calls persist, and then either stores
// the server copy or reverts. A failed operation reverts to the last slot
// the server confirmed for the job, never to another operation's guess.
// Only the most recent operation writes back while others are in flight.
func (b *Binder) run(id int64, slot joblog.Slot, persist func() (*joblog.Job, error)) (*joblog.Job, error) {
	b.mu.Lock()
	b.seq[id]++
	mine := b.seq[id]
	if b.inflight[id] == 0 {
		if job, ok := b.cache.Find(id); ok {
			b.confirmed[id] = job.Slot()
		}
	}
	b.inflight[id]++
	b.mu.Unlock()

	b.cache.apply(id, slot)
	updated, err := persist()

	b.mu.Lock()
	latest := b.seq[id] == mine
	b.inflight[id]--
	settled := b.inflight[id] == 0
	if err == nil {
		b.confirmed[id] = updated.Slot()
	}
	confirmed := b.confirmed[id]
	if settled {
		delete(b.inflight, id)
		delete(b.confirmed, id)
	}
	b.mu.Unlock()

	if err != nil {
		if latest {
			b.cache.apply(id, confirmed)
		}
		b.notify(id, err)
		return nil, err
	}
	if latest || settled {
		b.cache.replace(updated)
	}
	return updated, nil
}

func (b *Binder) notify(jobID int64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextNote++
	n := Notification{
		ID:      b.nextNote,
		JobID:   jobID,
		Message: fmt.Sprintf("Could not reschedule job %d. Please try again.", jobID),
		Err:     err,
		At:      b.now(),
	}
	b.notifications = append(b.notifications, n)
	log.Printf("binder: reschedule of job %d failed: %v", jobID, err)
}

// Notifications returns the undismissed failure messages, oldest first.
func (b *Binder) Notifications() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.notifications...)
}

// Dismiss removes notification id. Unknown ids are ignored.
func (b *Binder) Dismiss(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notifications {
		if n.ID == id {
			b.notifications = append(b.notifications[:i], b.notifications[i+1:]...)
			return
		}
	}
}

// BeginMove starts dragging job id. Only roles offered drag affordances may
// start a move.
func (b *Binder) BeginMove(id int64) error {
	if !access.CanDrag(b.principal.Role) {
		return ErrNotAllowed
	}
	if _, err := b.editable(id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dragging = id
	return nil
}

// CancelMove abandons the current move. It never touches the network.
func (b *Binder) CancelMove() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dragging = 0
}

// Dragging reports the job being moved, if any.
func (b *Binder) Dragging() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dragging, b.dragging != 0
}

// Drop confirms the current move onto slot.
func (b *Binder) Drop(ctx context.Context, slot joblog.Slot) (*joblog.Job, error) {
	b.mu.Lock()
	id := b.dragging
	b.dragging = 0
	b.mu.Unlock()
	if id == 0 {
		return nil, ErrNoGesture
	}
	return b.Reschedule(ctx, id, slot)
}
