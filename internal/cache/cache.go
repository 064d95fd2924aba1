package cache

import (
	"fmt"
	"sync"
	"time"

	"AgencyPulseSaas/internal/config"
)

// TTLCache is an explicit, injectable cache with a fixed time-to-live.
// Callers that want cached forecasts wrap the computation with it; nothing
// in the engine or the handlers keeps ambient module-level state.
type TTLCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	value   interface{}
	expires time.Time
}

func New(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = time.Duration(config.DefaultCacheTTLSeconds) * time.Second
	}
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// TTLFromConfig reads cache_ttl_seconds from a service config map.
func TTLFromConfig(cfg map[string]interface{}) time.Duration {
	if cfg != nil {
		switch v := cfg["cache_ttl_seconds"].(type) {
		case int:
			if v > 0 {
				return time.Duration(v) * time.Second
			}
		case float64:
			if v > 0 {
				return time.Duration(v) * time.Second
			}
		}
	}
	return time.Duration(config.DefaultCacheTTLSeconds) * time.Second
}

// Key builds the cache key for one tenant's forecast at a snapshot time.
// Snapshot time is bucketed to the TTL so a warm entry is reused until it
// naturally expires.
func (c *TTLCache) Key(orgID string, snapshotAt time.Time) string {
	return fmt.Sprintf("%s|%s", orgID, snapshotAt.UTC().Truncate(c.ttl).Format(time.RFC3339))
}

func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Put(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Purge drops every expired entry. The refresher calls this between runs so
// abandoned tenants don't pin memory.
func (c *TTLCache) Purge() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len reports live entries, counting expired-but-unswept ones out.
func (c *TTLCache) Len() int {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if !now.After(e.expires) {
			n++
		}
	}
	return n
}
