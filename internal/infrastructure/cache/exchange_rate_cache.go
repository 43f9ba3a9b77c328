package cache

import (
	"context"
	"sync"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
)

// CacheEntry represents a cached rate series with its expiry
type CacheEntry struct {
	Rates     []entity.RateWithDiff
	ExpiresAt time.Time
}

// ExchangeRateCache provides a thread-safe in-memory cache for rate series
type ExchangeRateCache struct {
	cache map[string]CacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

// NewExchangeRateCache creates a new exchange rate cache
func NewExchangeRateCache() *ExchangeRateCache {
	return &ExchangeRateCache{
		cache: make(map[string]CacheEntry),
		now:   time.Now,
	}
}

// Get retrieves a rate series from the cache if available and not expired
func (c *ExchangeRateCache) Get(_ context.Context, key string) ([]entity.RateWithDiff, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || !c.now().Before(entry.ExpiresAt) {
		return nil, false, nil
	}

	return copyRates(entry.Rates), true, nil
}

// Put stores a rate series in the cache
func (c *ExchangeRateCache) Put(_ context.Context, key string, rates []entity.RateWithDiff, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = CacheEntry{
		Rates:     copyRates(rates),
		ExpiresAt: c.now().Add(ttl),
	}
	return nil
}

// Clear clears all entries from the cache
func (c *ExchangeRateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// Size returns the number of items in the cache
func (c *ExchangeRateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *ExchangeRateCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.cache {
		if !now.Before(entry.ExpiresAt) {
			delete(c.cache, key)
			count++
		}
	}

	return count
}

// StartJanitor removes expired entries every interval until ctx is done
func (c *ExchangeRateCache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanExpired()
			}
		}
	}()
}

// Close releases the cache contents
func (c *ExchangeRateCache) Close() error {
	c.Clear()
	return nil
}

// copyRates keeps callers from mutating cached slices
func copyRates(rates []entity.RateWithDiff) []entity.RateWithDiff {
	out := make([]entity.RateWithDiff, len(rates))
	for i, r := range rates {
		out[i] = r
		if r.Diff != nil {
			diff := *r.Diff
			out[i].Diff = &diff
		}
	}
	return out
}
