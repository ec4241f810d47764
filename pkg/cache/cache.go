// Package cache provides byte-oriented key/value caching with TTLs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for machines that mirror one
//     taxdump between many workers
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// space, and [ScopedKeyer] can isolate tenants or environments.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get returns (nil, false, nil) on a miss, including for expired entries.
// A ttl of 0 passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
