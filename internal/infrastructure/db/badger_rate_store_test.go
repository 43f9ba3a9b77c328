package db

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRates() []entity.RateWithDiff {
	date := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
	return []entity.RateWithDiff{
		{
			ExchangeRate: entity.ExchangeRate{Date: date, BuyRate: decimal.RequireFromString("4.3256"), SellRate: decimal.RequireFromString("4.4124")},
		},
		{
			ExchangeRate: entity.ExchangeRate{Date: date.AddDate(0, 0, 1), BuyRate: decimal.RequireFromString("4.3379"), SellRate: decimal.RequireFromString("4.4251")},
			Diff:         &entity.RateDiff{Buy: decimal.RequireFromString("0.0123"), Sell: decimal.RequireFromString("0.0127")},
		},
	}
}

func TestBadgerRateStore(t *testing.T) {
	store, err := OpenBadgerRateStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	t.Run("Missing key", func(t *testing.T) {
		rates, ok, err := store.Get(ctx, "EUR:2026-02-11:2026-02-12")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, rates)
	})

	t.Run("Round trip", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "EUR:2026-02-11:2026-02-12", sampleRates(), time.Hour))

		rates, ok, err := store.Get(ctx, "EUR:2026-02-11:2026-02-12")
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, rates, 2)

		assert.True(t, rates[0].Date.Equal(sampleRates()[0].Date))
		assert.Nil(t, rates[0].Diff)
		assert.Equal(t, "4.3256", rates[0].BuyRate.String())
		require.NotNil(t, rates[1].Diff)
		assert.Equal(t, "0.0123", rates[1].Diff.Buy.String())
		assert.Equal(t, "0.0127", rates[1].Diff.Sell.String())
	})

	t.Run("Empty series is cached", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "USD:2026-02-14:2026-02-15", []entity.RateWithDiff{}, time.Hour))

		rates, ok, err := store.Get(ctx, "USD:2026-02-14:2026-02-15")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, rates)
	})

	t.Run("Expired entry", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "CHF:2026-02-11:2026-02-12", sampleRates(), time.Second))

		// Badger TTLs have second granularity
		assert.Eventually(t, func() bool {
			_, ok, err := store.Get(ctx, "CHF:2026-02-11:2026-02-12")
			return err == nil && !ok
		}, 5*time.Second, 100*time.Millisecond)
	})
}
