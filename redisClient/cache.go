package redisClient

import (
	"context"
	"time"

	"github.com/go-redis/redis"
)

// Cache is a cache.Cache backed by Redis string keys.
type Cache struct {
	rc *redis.Client
}

func NewCache(rc *redis.Client) *Cache {
	return &Cache{rc: rc}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.rc.WithContext(ctx).Get(key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.rc.WithContext(ctx).Set(key, value, ttl).Err()
}
