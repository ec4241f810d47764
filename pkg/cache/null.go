package cache

import (
	"context"
	"time"
)

// NullCache remembers nothing: every Get misses and every Set is dropped.
// With it the archive fetcher downloads on every run, which is what
// --no-cache asks for.
type NullCache struct{}

// NewNullCache returns an empty [NullCache].
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
