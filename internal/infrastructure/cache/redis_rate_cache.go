package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nbp:rates:"

// RedisRateCache stores rate series in Redis with a per-key expiry
type RedisRateCache struct {
	rdb redis.UniversalClient
}

// NewRedisRateCache wraps an existing Redis client
func NewRedisRateCache(client redis.UniversalClient) *RedisRateCache {
	return &RedisRateCache{rdb: client}
}

// InitRedisRateCache connects to Redis and checks the connection
func InitRedisRateCache(ctx context.Context, options *redis.Options) (*RedisRateCache, error) {
	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", options.Addr, err)
	}

	return NewRedisRateCache(client), nil
}

// Get retrieves a rate series if the key has not expired
func (c *RedisRateCache) Get(ctx context.Context, key string) ([]entity.RateWithDiff, bool, error) {
	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read rates from redis: %w", err)
	}

	var rates []entity.RateWithDiff
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached rates: %w", err)
	}

	return rates, true, nil
}

// Put stores a rate series for ttl
func (c *RedisRateCache) Put(ctx context.Context, key string, rates []entity.RateWithDiff, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}

	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store rates in redis: %w", err)
	}

	return nil
}

func (c *RedisRateCache) Close() error {
	return c.rdb.Close()
}
