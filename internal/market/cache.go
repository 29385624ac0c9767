package market

import (
	"fmt"
	"sync"
	"time"

	"zentrader/internal/types"
)

// barCache stores bar series per (symbol, period, interval) key for a
// bounded time, so repeated refresh actions do not hammer the provider.
type barCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	bars      []types.Bar
	timestamp time.Time
}

func cacheKey(symbol, period, interval string) string {
	return fmt.Sprintf("%s|%s|%s", symbol, period, interval)
}

func newBarCache(ttl time.Duration) *barCache {
	cache := &barCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
	go cache.cleanupLoop()
	return cache
}

func (c *barCache) get(key string) ([]types.Bar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.bars, true
}

func (c *barCache) set(key string, bars []types.Bar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = &cacheEntry{bars: bars, timestamp: time.Now()}
}

func (c *barCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.cleanup()
	}
}

func (c *barCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}
