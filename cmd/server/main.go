package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/damon-houk/nbp-exchange-rates/internal/application/service"
	"github.com/damon-houk/nbp-exchange-rates/internal/config"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/repository"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/api"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/cache"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/db"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/handler"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/metrics"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/middleware"
)

const janitorInterval = 10 * time.Minute

func main() {
	cfg := config.MustLoad()

	level, err := logger.ParseLevel(cfg.LogLevel)
	log := logger.NewJSONLogger(os.Stdout, level)
	logger.SetDefaultLogger(log)
	if err != nil {
		log.Warn("Unknown log level, falling back to INFO", map[string]interface{}{
			"log_level": cfg.LogLevel,
		})
	}

	log.Info("Starting NBP exchange rates API", map[string]interface{}{
		"port":          cfg.HTTPServer.Port,
		"nbp_base_url":  cfg.NBP.BaseURL,
		"cache_backend": cfg.Cache.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store, err := openRateStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialise rate cache", map[string]interface{}{
			"cache_backend": cfg.Cache.Backend,
			"error":         err.Error(),
		})
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing rate cache", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}

	// Initialize API client
	httpClient := &http.Client{Timeout: cfg.NBP.Timeout}
	nbpAPI := api.NewNBPAPIClient(cfg.NBP.BaseURL, httpClient, log, m)

	// Initialize repository, service and handler
	ratesRepo := db.NewNBPExchangeRateRepository(nbpAPI, store, cfg.Cache.TTL, log, m)
	ratesService := service.NewExchangeRateService(ratesRepo, log)
	ratesHandler := handler.NewExchangeRateHandler(ratesService, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.TokenAuthMiddleware(cfg.Auth.Header, cfg.Auth.Token, log))
	ratesHandler.RegisterRoutes(router)
	router.Handle("/metrics", m.Handler()).Methods("GET")
	middleware.CountUnmatched(router, m)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.RequestIDMiddleware(middleware.LoggingMiddleware(log)(router)),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Server stopped", nil)
}

// openRateStore builds the cache backend selected by CACHE_BACKEND.
// A nil store disables caching.
func openRateStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.RateStore, error) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		memory := cache.NewExchangeRateCache()
		memory.StartJanitor(ctx, janitorInterval)
		return memory, nil

	case config.CacheBadger:
		log.Info("Opening badger rate cache", map[string]interface{}{
			"path": cfg.Cache.BadgerPath,
		})
		return db.OpenBadgerRateStore(cfg.Cache.BadgerPath)

	case config.CacheRedis:
		log.Info("Connecting to redis rate cache", map[string]interface{}{
			"addr": cfg.Redis.Addr,
			"db":   cfg.Redis.DB,
		})
		return cache.InitRedisRateCache(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

	default:
		return nil, nil
	}
}
