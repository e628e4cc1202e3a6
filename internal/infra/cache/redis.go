package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// redisStore is the part of *redis.Client the cache uses.
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type RedisCache struct {
	rdb redisStore
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) generation(ctx context.Context, route string) int64 {
	gen, err := c.rdb.Get(ctx, routeKey(route)).Int64()
	if err != nil {
		return 0
	}
	return gen
}

func (c *RedisCache) Get(ctx context.Context, route, variant string) ([]byte, int64, bool) {
	gen := c.generation(ctx, route)
	payload, err := c.rdb.Get(ctx, entryKey(route, gen, variant)).Bytes()
	if err != nil {
		return nil, gen, false
	}
	return payload, gen, true
}

func (c *RedisCache) Set(ctx context.Context, route string, generation int64, variant string, payload []byte) error {
	err := c.rdb.Set(ctx, entryKey(route, generation, variant), payload, c.ttl).Err()
	return errors.Wrap(err, "redis set")
}

func (c *RedisCache) Invalidate(ctx context.Context, route string) error {
	err := c.rdb.Incr(ctx, routeKey(route)).Err()
	return errors.Wrap(err, "redis invalidate")
}
