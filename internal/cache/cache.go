// Package cache holds computed point scores per receipt id.
//
// Receipts are immutable, so a cached score never goes stale; expiry only bounds memory.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a computed score is kept.
const DefaultTTL = time.Hour

// Cache maps receipt ids to computed scores.
type Cache interface {
	// Get returns the cached score and whether it was present and unexpired.
	Get(ctx context.Context, id string) (int64, bool, error)
	Set(ctx context.Context, id string, points int64) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
}

type entry struct {
	points     int64
	insertedAt time.Time
}

// MemoryCache is an in-process Cache with an explicit expiry check on read.
// A ttl <= 0 keeps entries forever.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: map[string]entry{},
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, id string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return 0, false, nil
	}
	if c.ttl > 0 && c.nowFunc().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, id)
		return 0, false, nil
	}
	return e.points, true, nil
}

func (c *MemoryCache) Set(_ context.Context, id string, points int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{points: points, insertedAt: c.nowFunc()}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry{}
	return nil
}

// Len reports the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
