// Package mocks provides testify mocks for the service ports
package mocks

import (
	"context"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockRatesAPI mocks the RatesAPI interface
type MockRatesAPI struct {
	mock.Mock
}

func (m *MockRatesAPI) GetExchangeRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error) {
	args := m.Called(ctx, currency, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RateWithDiff), args.Error(1)
}

// MockExchangeRateRepository mocks the ExchangeRateRepository interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error) {
	args := m.Called(ctx, currency, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RateWithDiff), args.Error(1)
}

// MockRateStore mocks the RateStore interface
type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) Get(ctx context.Context, key string) ([]entity.RateWithDiff, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]entity.RateWithDiff), args.Bool(1), args.Error(2)
}

func (m *MockRateStore) Put(ctx context.Context, key string, rates []entity.RateWithDiff, ttl time.Duration) error {
	args := m.Called(ctx, key, rates, ttl)
	return args.Error(0)
}

func (m *MockRateStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
