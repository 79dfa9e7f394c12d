package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/mvbarbosa/pdfdigest/internal/common"
)

// Cache memoizes validated results keyed by content fingerprint. Store
// trouble never propagates: an unreachable store at construction leaves
// the cache permanently disabled, and every later store error is logged
// and reported as a miss (Get) or a false (Set). Eviction is TTL-only;
// Set is always a full overwrite.
type Cache struct {
	store   Store
	ttl     time.Duration
	enabled bool
	logger  *slog.Logger
}

// New probes the store once. On ping failure the cache degrades to
// disabled instead of failing the host process.
func New(ctx context.Context, store Store, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{store: store, ttl: ttl, logger: logger}

	if store == nil {
		logger.Warn("cache.disabled", "reason", "no store configured")
		return c
	}
	if err := store.Ping(ctx); err != nil {
		logger.Warn("cache.disabled", "reason", "store unreachable",
			"error", common.NewCacheError("ping", err))
		return c
	}

	c.enabled = true
	logger.Info("cache.ready", "ttl", ttl.String())
	return c
}

func (c *Cache) Enabled() bool { return c.enabled }

// Get returns the cached value for key, or absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	val, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache.get_error", "key", key,
			"error", common.NewCacheError("get", err))
		return nil, false
	}
	if !ok {
		c.logger.Debug("cache.miss", "key", key)
		return nil, false
	}
	c.logger.Debug("cache.hit", "key", key)
	return []byte(val), true
}

// Set writes the value with the configured TTL; best effort.
func (c *Cache) Set(ctx context.Context, key string, value []byte) bool {
	if !c.enabled {
		return false
	}
	if err := c.store.SetEx(ctx, key, string(value), c.ttl); err != nil {
		c.logger.Warn("cache.set_error", "key", key,
			"error", common.NewCacheError("setex", err))
		return false
	}
	c.logger.Debug("cache.set", "key", key, "ttl", c.ttl.String())
	return true
}

// Clear drops everything in the backing store.
func (c *Cache) Clear(ctx context.Context) bool {
	if !c.enabled {
		return false
	}
	if err := c.store.FlushDB(ctx); err != nil {
		c.logger.Warn("cache.clear_error",
			"error", common.NewCacheError("flushdb", err))
		return false
	}
	c.logger.Info("cache.cleared")
	return true
}
