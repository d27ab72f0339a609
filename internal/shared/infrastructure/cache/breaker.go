package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/resilience"
)

type lookup struct {
	value []byte
	found bool
}

// BreakerCache protects a remote cache with a circuit breaker. While the
// breaker is open reads are misses and writes are skipped, so callers fall
// through to the database instead of failing.
type BreakerCache struct {
	next    Cache
	breaker *resilience.Breaker[lookup]
	logger  *slog.Logger
}

// NewBreakerCache wraps next.
func NewBreakerCache(next Cache, cfg resilience.BreakerConfig, logger *slog.Logger) *BreakerCache {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "cache"
	}
	return &BreakerCache{
		next:    next,
		breaker: resilience.NewBreaker[lookup](cfg, logger),
		logger:  logger,
	}
}

func (c *BreakerCache) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	res, err := c.breaker.Execute(func() (lookup, error) {
		value, found, err := c.next.Get(ctx, key, ttl)
		return lookup{value: value, found: found}, err
	})
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		return nil, false, nil
	}
	return res.value, res.found, nil
}

func (c *BreakerCache) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.breaker.Execute(func() (lookup, error) {
		return lookup{}, c.next.Put(ctx, key, value)
	})
	if err != nil {
		c.logger.Warn("cache write skipped", "key", key, "error", err)
	}
	return nil
}

// Delete reports failures, an open breaker included, so callers know the
// entry may still be served until its TTL runs out.
func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	_, err := c.breaker.Execute(func() (lookup, error) {
		return lookup{}, c.next.Delete(ctx, key)
	})
	return err
}

// State reports the breaker state for health checks.
func (c *BreakerCache) State() string { return c.breaker.State() }
