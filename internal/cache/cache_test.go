package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("get = %q, %v", got, err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), time.Minute)
	now = now.Add(61 * time.Second)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected expired miss, got %v", err)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	src := []byte("abc")
	_ = m.Set(ctx, "k", src, 0)
	src[0] = 'z'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
}

func TestMemory_Generations(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	g, _ := m.Generation(ctx, "jobs")
	if g != 0 {
		t.Fatalf("initial generation = %d", g)
	}
	_ = m.Bump(ctx, "jobs")
	_ = m.Bump(ctx, "jobs")
	g, _ = m.Generation(ctx, "jobs")
	if g != 2 {
		t.Fatalf("generation = %d, want 2", g)
	}
	other, _ := m.Generation(ctx, "users")
	if other != 0 {
		t.Fatalf("namespaces should be independent, got %d", other)
	}
}
