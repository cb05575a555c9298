package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// ContentTTL is how long cached content-store reads are served before the
// next request refetches. Invalidation is time-based only.
const ContentTTL = 5 * time.Minute

// RedisCache fronts read-mostly content-store data (quiz definitions and
// question sets) with a fixed TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client}
}

// GetJSON loads the value stored under key into dest. Returns false on a
// cache miss; any decode error is treated as a miss as well.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON stores value under key with the content TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ContentTTL).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
