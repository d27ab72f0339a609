package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "therapytrack:cache:"

	// DefaultRetention bounds how long Redis keeps an entry no reader has
	// asked for.
	DefaultRetention = 24 * time.Hour
)

type redisEntry struct {
	StoredAt time.Time `json:"stored_at"`
	Value    []byte    `json:"value"`
}

// RedisCache is a Cache shared between processes. Each entry carries the
// time it was stored so freshness follows the reader's TTL and clock, and
// Redis expiry only reclaims abandoned keys.
type RedisCache struct {
	client    *redis.Client
	clock     domain.Clock
	retention time.Duration
}

// NewRedisCache wraps client. retention <= 0 means DefaultRetention.
func NewRedisCache(client *redis.Client, clock domain.Clock, retention time.Duration) *RedisCache {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisCache{client: client, clock: clock, retention: retention}
}

func (c *RedisCache) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	entry, err := decodeRedisEntry(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if !fresh(entry.StoredAt, c.clock.Now(), ttl) {
		return nil, false, nil
	}
	return entry.Value, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, value []byte) error {
	raw, err := encodeRedisEntry(redisEntry{StoredAt: c.clock.Now(), Value: value})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.retention).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func encodeRedisEntry(e redisEntry) ([]byte, error) {
	return json.Marshal(e)
}

func decodeRedisEntry(raw []byte) (redisEntry, error) {
	var e redisEntry
	err := json.Unmarshal(raw, &e)
	return e, err
}
