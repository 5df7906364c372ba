package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache used when no Redis address is configured.
type Memory struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]int64
	now         func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries:     make(map[string]entry),
		generations: make(map[string]int64),
		now:         time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, ErrMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Generation(ctx context.Context, ns string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[ns], nil
}

func (m *Memory) Bump(ctx context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[ns]++
	// Keys of older generations are unreachable; sweep the expired ones.
	for k, e := range m.entries {
		if !e.expires.IsZero() && !m.now().Before(e.expires) {
			delete(m.entries, k)
		}
	}
	return nil
}
