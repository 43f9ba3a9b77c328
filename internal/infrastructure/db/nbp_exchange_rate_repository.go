// Package db holds the rate repository and its persistent cache backend
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/repository"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/service"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/metrics"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/middleware"
)

// NBPExchangeRateRepository implements the ExchangeRateRepository interface.
// It reads through an optional RateStore before calling the NBP API.
type NBPExchangeRateRepository struct {
	provider service.RatesAPI
	store    repository.RateStore
	ttl      time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewNBPExchangeRateRepository creates a new repository for rate series.
// A nil store disables caching.
func NewNBPExchangeRateRepository(provider service.RatesAPI, store repository.RateStore, ttl time.Duration, log logger.Logger, m *metrics.Metrics) *NBPExchangeRateRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBPExchangeRateRepository{
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   log,
		metrics:  m,
	}
}

// FindRates returns the rate series for a currency and date range
func (r *NBPExchangeRateRepository) FindRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error) {
	requestID := middleware.GetRequestID(ctx)
	key := repository.RatesKey(currency, dateRange)

	if r.store != nil {
		rates, ok, err := r.store.Get(ctx, key)
		switch {
		case err != nil:
			// A broken cache must not fail the request
			r.logger.Warn("Rate cache lookup failed", map[string]interface{}{
				"request_id": requestID,
				"key":        key,
				"error":      err.Error(),
			})
		case ok:
			r.metrics.ObserveCacheLookup(true)
			r.logger.Debug("Rate cache hit", map[string]interface{}{
				"request_id": requestID,
				"key":        key,
			})
			return rates, nil
		default:
			r.metrics.ObserveCacheLookup(false)
		}
	}

	r.logger.Info("Finding exchange rates", map[string]interface{}{
		"request_id": requestID,
		"currency":   currency.String(),
		"start":      dateRange.FormatStart(),
		"end":        dateRange.FormatEnd(),
	})

	rates, err := r.provider.GetExchangeRates(ctx, currency, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve exchange rates: %w", err)
	}

	if r.store != nil {
		if err := r.store.Put(ctx, key, rates, r.ttl); err != nil {
			r.logger.Warn("Failed to cache exchange rates", map[string]interface{}{
				"request_id": requestID,
				"key":        key,
				"error":      err.Error(),
			})
		}
	}

	return rates, nil
}
