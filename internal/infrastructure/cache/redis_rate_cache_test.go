package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateCache(t *testing.T) {
	// Requires a running Redis instance
	addr := os.Getenv("REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("Skipping redis test: REDIS_ADDR not set")
	}

	ctx := context.Background()
	cache, err := InitRedisRateCache(ctx, &redis.Options{Addr: addr})
	require.NoError(t, err)
	defer cache.Close()

	key := "TEST:" + time.Now().Format(time.RFC3339Nano)

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, key, testRates(), time.Minute))

	rates, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rates, 2)
	assert.Nil(t, rates[0].Diff)
	assert.Equal(t, "0.0127", rates[1].Diff.Sell.String())
	assert.True(t, rates[1].Date.Equal(testRates()[1].Date))
}

func TestInitRedisRateCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := InitRedisRateCache(ctx, &redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	assert.Error(t, err)
}
