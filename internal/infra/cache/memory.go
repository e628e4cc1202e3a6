package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process RouteCache for single instance deployments.
type MemoryCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *MemoryCache) generation(route string) int64 {
	if v, ok := c.store.Get(routeKey(route)); ok {
		return v.(int64)
	}
	return 0
}

func (c *MemoryCache) Get(ctx context.Context, route, variant string) ([]byte, int64, bool) {
	gen := c.generation(route)
	v, ok := c.store.Get(entryKey(route, gen, variant))
	if !ok {
		return nil, gen, false
	}
	return v.([]byte), gen, true
}

func (c *MemoryCache) Set(ctx context.Context, route string, generation int64, variant string, payload []byte) error {
	c.store.Set(entryKey(route, generation, variant), payload, c.ttl)
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, route string) error {
	key := routeKey(route)
	// Add fails when the counter exists, which is fine
	_ = c.store.Add(key, int64(0), gocache.NoExpiration)
	_, err := c.store.IncrementInt64(key, 1)
	return err
}
