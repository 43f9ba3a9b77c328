package service

import (
	"context"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
)

// RatesAPI defines the interface for fetching rate series from the NBP API
type RatesAPI interface {
	// GetExchangeRates retrieves the diffed rate series for a currency and date range
	GetExchangeRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error)
}
