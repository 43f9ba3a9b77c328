package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/cache"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/metrics"
	"github.com/damon-houk/nbp-exchange-rates/internal/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNBPExchangeRateRepository(t *testing.T) {
	ctx := context.Background()
	dateRange, err := entity.NewDateRange("2026-02-11", "2026-02-12")
	require.NoError(t, err)
	log := logger.NewNopLogger()

	t.Run("Successful rate retrieval without cache", func(t *testing.T) {
		provider := new(mocks.MockRatesAPI)
		repo := NewNBPExchangeRateRepository(provider, nil, time.Hour, log, nil)

		provider.On("GetExchangeRates", ctx, entity.EUR, dateRange).Return(sampleRates(), nil).Once()

		rates, err := repo.FindRates(ctx, entity.EUR, dateRange)
		assert.NoError(t, err)
		assert.Equal(t, sampleRates(), rates)

		provider.AssertExpectations(t)
	})

	t.Run("API client error", func(t *testing.T) {
		provider := new(mocks.MockRatesAPI)
		repo := NewNBPExchangeRateRepository(provider, nil, time.Hour, log, nil)

		upstream := &entity.UpstreamError{StatusCode: 404}
		provider.On("GetExchangeRates", ctx, entity.USD, dateRange).Return(nil, upstream).Once()

		rates, err := repo.FindRates(ctx, entity.USD, dateRange)
		assert.Nil(t, rates)
		assert.Contains(t, err.Error(), "failed to retrieve exchange rates")

		var upstreamErr *entity.UpstreamError
		require.True(t, errors.As(err, &upstreamErr))
		assert.Equal(t, 404, upstreamErr.StatusCode)

		provider.AssertExpectations(t)
	})

	t.Run("Second request is served from cache", func(t *testing.T) {
		provider := new(mocks.MockRatesAPI)
		m := metrics.New()
		repo := NewNBPExchangeRateRepository(provider, cache.NewExchangeRateCache(), time.Hour, log, m)

		provider.On("GetExchangeRates", ctx, entity.CHF, dateRange).Return(sampleRates(), nil).Once()

		first, err := repo.FindRates(ctx, entity.CHF, dateRange)
		require.NoError(t, err)
		second, err := repo.FindRates(ctx, entity.CHF, dateRange)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		provider.AssertNumberOfCalls(t, "GetExchangeRates", 1)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("hit")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("miss")))
	})

	t.Run("Cache is keyed by currency and both dates", func(t *testing.T) {
		provider := new(mocks.MockRatesAPI)
		repo := NewNBPExchangeRateRepository(provider, cache.NewExchangeRateCache(), time.Hour, log, nil)

		otherRange, err := entity.NewDateRange("2026-02-11", "2026-02-13")
		require.NoError(t, err)

		provider.On("GetExchangeRates", ctx, entity.EUR, dateRange).Return(sampleRates(), nil).Once()
		provider.On("GetExchangeRates", ctx, entity.USD, dateRange).Return(sampleRates(), nil).Once()
		provider.On("GetExchangeRates", ctx, entity.EUR, otherRange).Return(sampleRates()[:1], nil).Once()

		_, err = repo.FindRates(ctx, entity.EUR, dateRange)
		require.NoError(t, err)
		_, err = repo.FindRates(ctx, entity.USD, dateRange)
		require.NoError(t, err)
		rates, err := repo.FindRates(ctx, entity.EUR, otherRange)
		require.NoError(t, err)

		assert.Len(t, rates, 1)
		provider.AssertExpectations(t)
	})

	t.Run("Failures are not cached", func(t *testing.T) {
		provider := new(mocks.MockRatesAPI)
		store := new(mocks.MockRateStore)
		repo := NewNBPExchangeRateRepository(provider, store, time.Hour, log, nil)

		store.On("Get", ctx, "EUR:2026-02-11:2026-02-12").Return(nil, false, nil).Once()
		provider.On("GetExchangeRates", ctx, entity.EUR, dateRange).
			Return(nil, &entity.ParseError{Err: errors.New("EOF")}).Once()

		_, err := repo.FindRates(ctx, entity.EUR, dateRange)
		assert.Error(t, err)

		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("Broken cache falls through to the API", func(t *testing.T) {
		provider := new(mocks.MockRatesAPI)
		store := new(mocks.MockRateStore)
		repo := NewNBPExchangeRateRepository(provider, store, 30*time.Minute, log, nil)

		store.On("Get", ctx, "EUR:2026-02-11:2026-02-12").Return(nil, false, errors.New("disk full")).Once()
		store.On("Put", ctx, "EUR:2026-02-11:2026-02-12", sampleRates(), 30*time.Minute).Return(errors.New("disk full")).Once()
		provider.On("GetExchangeRates", ctx, entity.EUR, dateRange).Return(sampleRates(), nil).Once()

		rates, err := repo.FindRates(ctx, entity.EUR, dateRange)
		require.NoError(t, err)
		assert.Len(t, rates, 2)

		store.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("Badger backend", func(t *testing.T) {
		store, err := OpenBadgerRateStore(t.TempDir())
		require.NoError(t, err)
		defer store.Close()

		provider := new(mocks.MockRatesAPI)
		repo := NewNBPExchangeRateRepository(provider, store, time.Hour, log, nil)

		provider.On("GetExchangeRates", ctx, entity.EUR, dateRange).Return(sampleRates(), nil).Once()

		_, err = repo.FindRates(ctx, entity.EUR, dateRange)
		require.NoError(t, err)
		rates, err := repo.FindRates(ctx, entity.EUR, dateRange)
		require.NoError(t, err)

		require.Len(t, rates, 2)
		assert.Equal(t, "0.0123", rates[1].Diff.Buy.String())
		provider.AssertNumberOfCalls(t, "GetExchangeRates", 1)
	})
}
