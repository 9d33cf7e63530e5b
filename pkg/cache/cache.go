// Package cache provides byte-level caches for advisory lookups and layouts.
//
// jengatower only caches things that are safe to recompute: OSV query
// responses keyed by package name and normalized version, and tower layouts
// keyed by the hash of their input. Every entry carries a TTL so a cache can
// never pin a stale advisory forever.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [MemoryCache]: in-process map with expiry (server default)
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [MongoCache]: shared cache backed by a TTL-indexed collection
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are built by a [Keyer] so that every backend sees the same layout:
//
//	k := cache.NewDefaultKeyer()
//	k.AdvisoryKey("lodash", "4.17.21")  // "advisory:npm:lodash@4.17.21"
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// TTLAdvisory bounds how long an OSV answer is reused.
	TTLAdvisory = time.Hour

	// TTLLayout bounds how long a computed tower is reused.
	TTLLayout = 24 * time.Hour
)

// Cache stores opaque byte slices under string keys.
//
// Get returns (nil, false, nil) on a miss, including for expired entries.
// Implementations must be safe for concurrent use; the advisory batcher calls
// Get and Set from several goroutines at once.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
