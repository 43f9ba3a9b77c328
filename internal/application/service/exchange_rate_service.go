// Package service contains the application use cases of the rates API
package service

import (
	"context"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/repository"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/middleware"
)

// RatesQuery is the outcome of a rates lookup
type RatesQuery struct {
	Currency  entity.Currency
	DateRange entity.DateRange
	Rates     []entity.RateWithDiff
}

// ExchangeRateService validates rate queries and resolves them through the repository
type ExchangeRateService struct {
	repo   repository.ExchangeRateRepository
	logger logger.Logger
}

// NewExchangeRateService creates a new exchange rate service
func NewExchangeRateService(repo repository.ExchangeRateRepository, log logger.Logger) *ExchangeRateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateService{
		repo:   repo,
		logger: log,
	}
}

// GetRates validates the raw currency code and dates, then fetches the rates.
// Validation errors are returned before the repository is touched.
func (s *ExchangeRateService) GetRates(ctx context.Context, code, start, end string) (*RatesQuery, error) {
	requestID := middleware.GetRequestID(ctx)

	currency, err := entity.ParseCurrency(code)
	if err != nil {
		s.logger.Warn("Unsupported currency", map[string]interface{}{
			"request_id": requestID,
			"currency":   code,
		})
		return nil, err
	}

	dateRange, err := entity.NewDateRange(start, end)
	if err != nil {
		s.logger.Warn("Invalid date range", map[string]interface{}{
			"request_id": requestID,
			"start":      start,
			"end":        end,
			"error":      err.Error(),
		})
		return nil, err
	}

	rates, err := s.repo.FindRates(ctx, currency, dateRange)
	if err != nil {
		s.logger.Error("Failed to get exchange rates", map[string]interface{}{
			"request_id": requestID,
			"currency":   currency.String(),
			"start":      dateRange.FormatStart(),
			"end":        dateRange.FormatEnd(),
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Exchange rates retrieved", map[string]interface{}{
		"request_id": requestID,
		"currency":   currency.String(),
		"start":      dateRange.FormatStart(),
		"end":        dateRange.FormatEnd(),
		"rates":      len(rates),
	})

	return &RatesQuery{
		Currency:  currency,
		DateRange: dateRange,
		Rates:     rates,
	}, nil
}
