// Package cache provides the byte-oriented key/value caches used to memoize
// registry lookups.
//
// Every backend implements [Cache]:
//
//   - [MemoryCache]: in-process map; the lifetime of the owning client
//   - [FileCache]: JSON files on disk; survives across CLI runs
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: stores nothing; disables memoization
//
// Callers own their cache instance explicitly. Nothing in this package is
// global.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys with an optional TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
