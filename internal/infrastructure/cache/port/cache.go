package port

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract the application depends on.
// Implementations must be concurrency-safe and context-aware. Values are
// strings; callers own serialization.
type Cache interface {
	// Get fetches the value for key, returning ErrMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes the given keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the cache backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// ErrMiss signals a cache miss in a typed way so callers can distinguish
// misses from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
