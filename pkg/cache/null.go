package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache, the "none" backend and
// the fallback when the configured backend cannot be opened, so every
// route search runs from scratch.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache {
	return &NullCache{}
}

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

// Clear succeeds without doing anything, so "meteo cache clear" works
// for every backend.
func (*NullCache) Clear(context.Context) error { return nil }

func (*NullCache) Close() error { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
