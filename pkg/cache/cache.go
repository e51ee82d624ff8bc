// Package cache provides the byte cache behind route planning.
//
// # Backends
//
//   - [NullCache]: stores nothing, for tests and --no-cache runs
//   - [MemoryCache]: in-process map with TTLs, the server default
//   - [FileCache]: one JSON file per entry, the CLI default
//   - [RedisCache]: shared cache for several server replicas
//
// All backends implement [Cache]. A miss is (nil, false, nil); errors are
// reserved for backend failures, which callers treat as misses.
//
// # Keys
//
// A [Keyer] derives keys from content hashes so that a changed dataset never
// hits stale entries. [ScopedKeyer] prefixes every key, which lets several
// deployments share one Redis instance.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached artifacts.
const (
	// TTLNetwork covers a built network's summary. Keys include the
	// dataset hash, so entries only go stale by age.
	TTLNetwork = 7 * 24 * time.Hour

	// TTLRoutes covers a ranked route list.
	TTLRoutes = 24 * time.Hour

	// TTLDataset covers a dataset fetched over HTTP.
	TTLDataset = time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or expiry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
