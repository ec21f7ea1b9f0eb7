package cache

import (
	"context"
	"time"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backed by a shared Redis instance. All keys are
// namespaced under a fixed prefix so cached API responses can be flushed
// without touching rate-limit state.
type RedisCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCache wraps a Redis client as a Cache.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{
		client:    client,
		keyPrefix: "apicache:",
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		logger.GetLogger().Warnw("Redis cache read failed", "key", key, "error", err)
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		logger.GetLogger().Warnw("Redis cache write failed", "key", key, "error", err)
		return err
	}
	return nil
}
