package binder

import (
	"sort"
	"sync"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/calendar"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
)

// QueryKey identifies a cached job query. Unscheduled queries only ever
// show jobs without a complete date and time.
type QueryKey struct {
	Name        string
	Unscheduled bool
}

// QueryCache holds job lists by query, patched in place by the Binder.
type QueryCache struct {
	mu      sync.RWMutex
	queries map[QueryKey][]*joblog.Job
}

func NewQueryCache() *QueryCache {
	return &QueryCache{queries: make(map[QueryKey][]*joblog.Job)}
}

// Put replaces the result of query key.
func (c *QueryCache) Put(key QueryKey, jobs []*joblog.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries[key] = cloneAll(jobs)
}

// Jobs returns a copy of the result of query key.
func (c *QueryCache) Jobs(key QueryKey) ([]*joblog.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	jobs, ok := c.queries[key]
	if !ok {
		return nil, false
	}
	out := make([]*joblog.Job, 0, len(jobs))
	for _, j := range jobs {
		if key.Unscheduled && j.IsScheduled() {
			continue
		}
		out = append(out, j.Clone())
	}
	return out, true
}

// Invalidate drops query key.
func (c *QueryCache) Invalidate(key QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queries, key)
}

// Keys lists cached queries in name order.
func (c *QueryCache) Keys() []QueryKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]QueryKey, 0, len(c.queries))
	for k := range c.queries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Name != keys[b].Name {
			return keys[a].Name < keys[b].Name
		}
		return !keys[a].Unscheduled && keys[b].Unscheduled
	})
	return keys
}

// Find returns a copy of job id from any cached query.
func (c *QueryCache) Find(id int64) (*joblog.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, jobs := range c.queries {
		for _, j := range jobs {
			if j.ID == id {
				return j.Clone(), true
			}
		}
	}
	return nil, false
}

// apply moves job id to slot in every query holding it and returns the
// slot it held before.
func (c *QueryCache) apply(id int64, slot joblog.Slot) (joblog.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var previous joblog.Slot
	found := false
	for key, jobs := range c.queries {
		next, prev, ok := calendar.ApplyReschedule(jobs, id, slot)
		if !ok {
			continue
		}
		if !found {
			previous, found = prev, true
		}
		c.queries[key] = next
	}
	return previous, found
}

// replace stores the server copy of job in every query holding it. An
// unscheduled job is also added to unscheduled queries missing it.
func (c *QueryCache) replace(job *joblog.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, jobs := range c.queries {
		replaced := false
		next := make([]*joblog.Job, len(jobs))
		for i, j := range jobs {
			if j.ID == job.ID {
				next[i] = job.Clone()
				replaced = true
				continue
			}
			next[i] = j
		}
		if !replaced && key.Unscheduled && !job.IsScheduled() {
			next = append(next, job.Clone())
		}
		c.queries[key] = next
	}
}

func cloneAll(jobs []*joblog.Job) []*joblog.Job {
	out := make([]*joblog.Job, 0, len(jobs))
	for _, j := range jobs {
		if j != nil {
			out = append(out, j.Clone())
		}
	}
	return out
}
