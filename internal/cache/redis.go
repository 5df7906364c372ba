package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache shared between API instances.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps client; every key is stored under prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Generation(ctx context.Context, ns string) (int64, error) {
	n, err := r.client.Get(ctx, r.generationKey(ns)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis generation: %w", err)
	}
	return n, nil
}

func (r *Redis) Bump(ctx context.Context, ns string) error {
	if err := r.client.Incr(ctx, r.generationKey(ns)).Err(); err != nil {
		return fmt.Errorf("redis bump: %w", err)
	}
	return nil
}

func (r *Redis) generationKey(ns string) string {
	return r.prefix + "gen:" + ns
}
