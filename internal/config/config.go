// Package config loads the service configuration from the environment
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
)

// Cache backends selectable with CACHE_BACKEND
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheBadger = "badger"
	CacheRedis  = "redis"
)

type Config struct {
	HTTPServer HTTPServer
	NBP        NBP
	Auth       Auth
	Cache      Cache
	Redis      Redis
	LogLevel   string `env:"LOG_LEVEL" env-default:"INFO"`
}

type HTTPServer struct {
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type NBP struct {
	BaseURL string        `env:"NBP_BASE_URL" env-default:"https://api.nbp.pl/api/exchangerates/rates/c"`
	Timeout time.Duration `env:"NBP_TIMEOUT" env-default:"10s"`
}

type Auth struct {
	Token  string `env:"AUTH_TOKEN" env-required:"true"`
	Header string `env:"AUTH_HEADER" env-default:"X-TOKEN-SYSTEM"`
}

type Cache struct {
	Backend    string        `env:"CACHE_BACKEND" env-default:"memory"`
	TTL        time.Duration `env:"CACHE_TTL" env-default:"1h"`
	BadgerPath string        `env:"BADGER_PATH" env-default:"data"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad is Load that terminates the process on failure
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return cfg
}

// Validate checks values cleanenv cannot express as tags
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Token) == "" {
		return errors.New("AUTH_TOKEN must not be empty")
	}
	if c.Auth.Header == "" {
		return errors.New("AUTH_HEADER must not be empty")
	}

	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheBadger, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q, use one of: none, memory, badger, redis", c.Cache.Backend)
	}

	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if c.NBP.Timeout <= 0 {
		return errors.New("NBP_TIMEOUT must be positive")
	}

	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return ":" + c.HTTPServer.Port
}
