// Package repository defines the storage-facing ports of the rates API
package repository

import (
	"context"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
)

// ExchangeRateRepository defines the interface for rate series access
type ExchangeRateRepository interface {
	// FindRates returns the diffed rate series for a currency and date range
	FindRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error)
}

// RateStore is a short-lived cache of rate series responses.
// Entries are keyed by RatesKey and expire after ttl.
type RateStore interface {
	Get(ctx context.Context, key string) ([]entity.RateWithDiff, bool, error)
	Put(ctx context.Context, key string, rates []entity.RateWithDiff, ttl time.Duration) error
	Close() error
}

// RatesKey builds the cache key for a currency and date range
func RatesKey(currency entity.Currency, dateRange entity.DateRange) string {
	return currency.String() + ":" + dateRange.FormatStart() + ":" + dateRange.FormatEnd()
}
