package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process memory. Expired entries are swept
// every cleanup interval; Get never returns an expired entry.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process cache. defaultTTL applies when Set is
// called with ttl <= 0.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = TTLAdvisory
	}
	return &MemoryCache{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := m.c.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		m.c.Delete(key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a copy of data under key.
func (m *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

// Delete removes a value from the cache.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len reports the number of stored entries, possibly including expired ones
// not yet swept.
func (m *MemoryCache) Len() int { return m.c.ItemCount() }

// Close drops every entry.
func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
