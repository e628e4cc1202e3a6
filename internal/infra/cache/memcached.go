package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

// memcacheStore is the part of *memcache.Client the cache uses.
type memcacheStore interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
}

type MemcachedCache struct {
	client memcacheStore
	ttl    time.Duration
}

func NewMemcachedCache(client *memcache.Client, ttl time.Duration) *MemcachedCache {
	return &MemcachedCache{client: client, ttl: ttl}
}

func (c *MemcachedCache) generation(route string) int64 {
	item, err := c.client.Get(routeKey(route))
	if err != nil {
		return 0
	}
	gen, err := strconv.ParseInt(string(item.Value), 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

func (c *MemcachedCache) Get(ctx context.Context, route, variant string) ([]byte, int64, bool) {
	gen := c.generation(route)
	item, err := c.client.Get(entryKey(route, gen, variant))
	if err != nil {
		return nil, gen, false
	}
	return item.Value, gen, true
}

func (c *MemcachedCache) Set(ctx context.Context, route string, generation int64, variant string, payload []byte) error {
	err := c.client.Set(&memcache.Item{
		Key:        entryKey(route, generation, variant),
		Value:      payload,
		Expiration: int32(c.ttl.Seconds()),
	})
	return errors.Wrap(err, "memcached set")
}

func (c *MemcachedCache) Invalidate(ctx context.Context, route string) error {
	key := routeKey(route)
	_, err := c.client.Increment(key, 1)
	if errors.Is(err, memcache.ErrCacheMiss) {
		err = c.client.Add(&memcache.Item{Key: key, Value: []byte("1")})
		if errors.Is(err, memcache.ErrNotStored) {
			// raced with another invalidation, which bumped it for us
			return nil
		}
	}
	return errors.Wrap(err, "memcached invalidate")
}
