package cache

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/shared/domain"
)

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   domain.Clock
}

// NewMemoryCache creates an empty cache. A nil clock uses the system clock.
func NewMemoryCache(clock domain.Clock) *MemoryCache {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &MemoryCache{entries: make(map[string]memoryEntry), clock: clock}
}

func (c *MemoryCache) Get(_ context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !fresh(entry.storedAt, c.clock.Now(), ttl) {
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{value: append([]byte(nil), value...), storedAt: c.clock.Now()}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, stale ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
