package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/application/service"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/repository"
	domainservice "github.com/damon-houk/nbp-exchange-rates/internal/domain/service"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/cache"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/db"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/handler"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/metrics"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRatesAPI serves a synthetic series for every business day in the range
type stubRatesAPI struct {
	calls int64
}

func (s *stubRatesAPI) GetExchangeRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error) {
	atomic.AddInt64(&s.calls, 1)

	base := map[entity.Currency]string{
		entity.EUR: "4.3256",
		entity.USD: "3.9812",
		entity.CHF: "4.5120",
	}[currency]

	var rates []entity.ExchangeRate
	step := decimal.RequireFromString("0.0031")
	buy := decimal.RequireFromString(base)

	for day := dateRange.Start(); !day.After(dateRange.End()); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		rates = append(rates, entity.ExchangeRate{
			Date:     day,
			BuyRate:  buy,
			SellRate: buy.Add(decimal.RequireFromString("0.0868")),
		})
		buy = buy.Add(step)
	}

	return domainservice.NewRateDiffCalculator().Calculate(rates), nil
}

func ratesQueries() [][3]string {
	var queries [][3]string
	for _, currency := range []string{"EUR", "USD", "CHF"} {
		for offset := 0; offset < 4; offset++ {
			start := time.Date(2026, 2, 2+offset, 0, 0, 0, 0, time.UTC)
			queries = append(queries, [3]string{
				currency,
				start.Format(entity.DateLayout),
				start.AddDate(0, 0, 6).Format(entity.DateLayout),
			})
		}
	}
	return queries
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	badgerStore, err := db.OpenBadgerRateStore(t.TempDir())
	require.NoError(t, err)
	defer badgerStore.Close()

	backends := []struct {
		name  string
		store repository.RateStore
	}{
		{"No cache", nil},
		{"Memory cache", cache.NewExchangeRateCache()},
		{"Badger cache", badgerStore},
	}

	// Performance test configuration
	numRequests := 300
	concurrency := 10
	queries := ratesQueries()
	log := logger.NewNopLogger()

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			provider := &stubRatesAPI{}
			repo := db.NewNBPExchangeRateRepository(provider, backend.store, time.Hour, log, nil)
			ratesService := service.NewExchangeRateService(repo, log)

			var failures int64
			startTime := time.Now()

			wg := sync.WaitGroup{}
			wg.Add(concurrency)

			reqPerWorker := numRequests / concurrency

			for i := 0; i < concurrency; i++ {
				go func(workerID int) {
					defer wg.Done()

					ctx := context.Background()
					for j := 0; j < reqPerWorker; j++ {
						q := queries[(workerID*reqPerWorker+j)%len(queries)]

						result, err := ratesService.GetRates(ctx, q[0], q[1], q[2])
						if err != nil || len(result.Rates) != 5 {
							atomic.AddInt64(&failures, 1)
						}
					}
				}(i)
			}

			wg.Wait()
			duration := time.Since(startTime)

			assert.Zero(t, atomic.LoadInt64(&failures))
			if backend.store == nil {
				assert.Equal(t, int64(numRequests), atomic.LoadInt64(&provider.calls))
			} else {
				// Concurrent misses on the same key may each reach the provider
				assert.LessOrEqual(t, atomic.LoadInt64(&provider.calls), int64(len(queries)*concurrency))
			}

			// Calculate throughput
			throughput := float64(numRequests) / duration.Seconds()
			t.Logf("%s: %d requests in %v (%.2f req/sec, %d provider calls)",
				backend.name, numRequests, duration, throughput, atomic.LoadInt64(&provider.calls))
		})
	}

	t.Run("HTTP router", func(t *testing.T) {
		m := metrics.New()
		repo := db.NewNBPExchangeRateRepository(&stubRatesAPI{}, cache.NewExchangeRateCache(), time.Hour, log, m)
		ratesHandler := handler.NewExchangeRateHandler(service.NewExchangeRateService(repo, log), log)

		router := mux.NewRouter()
		router.Use(middleware.MetricsMiddleware(m))
		router.Use(middleware.TokenAuthMiddleware(middleware.DefaultTokenHeader, "perf-token", log))
		ratesHandler.RegisterRoutes(router)
		chain := middleware.RequestIDMiddleware(middleware.LoggingMiddleware(log)(router))

		var nonOK int64
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		reqPerWorker := numRequests / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				for j := 0; j < reqPerWorker; j++ {
					q := queries[(workerID*reqPerWorker+j)%len(queries)]
					req := httptest.NewRequest("GET", fmt.Sprintf("/api/rates/%s/%s/%s", q[0], q[1], q[2]), nil)
					req.Header.Set(middleware.DefaultTokenHeader, "perf-token")

					w := httptest.NewRecorder()
					chain.ServeHTTP(w, req)
					if w.Code != http.StatusOK {
						atomic.AddInt64(&nonOK, 1)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		assert.Zero(t, atomic.LoadInt64(&nonOK))

		throughput := float64(numRequests) / duration.Seconds()
		t.Logf("HTTP router: %d requests in %v (%.2f req/sec)", numRequests, duration, throughput)
	})
}
