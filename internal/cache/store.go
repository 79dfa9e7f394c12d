package cache

import (
	"context"
	"time"
)

// Store is the key-value surface the content cache relies on: the Redis
// command set the original deployment used, narrowed to what this core
// calls. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetEx writes the value with a TTL, fully overwriting any prior value.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// Ping probes connectivity.
	Ping(ctx context.Context) error
	// FlushDB drops every key.
	FlushDB(ctx context.Context) error
}
