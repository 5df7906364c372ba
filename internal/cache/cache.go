// Package cache holds the shared job-list cache. Entries are keyed by query
// identity and invalidated wholesale by bumping a namespace generation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores opaque values. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Generation returns the current generation of namespace ns.
	Generation(ctx context.Context, ns string) (int64, error)
	// Bump advances the generation of ns, orphaning every key built on the
	// previous one.
	Bump(ctx context.Context, ns string) error
}
