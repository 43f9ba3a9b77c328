package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/service"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/metrics"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/middleware"
)

const (
	// DefaultBaseURL is the NBP endpoint for table C (buy/sell) rate series
	DefaultBaseURL = "https://api.nbp.pl/api/exchangerates/rates/c"

	// DefaultTimeout bounds a single NBP API call
	DefaultTimeout = 10 * time.Second

	maxBodySize = 5 << 20
)

// HTTPDoer is the transport used to reach the NBP API
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NBPAPIClient implements the RatesAPI interface against the NBP web API
type NBPAPIClient struct {
	baseURL        string
	httpClient     HTTPDoer
	parser         *XMLRateParser
	diffCalculator *service.RateDiffCalculator
	logger         logger.Logger
	metrics        *metrics.Metrics
}

// NewNBPAPIClient creates a new NBP API client.
// An empty baseURL selects DefaultBaseURL, a nil httpClient an http.Client
// with DefaultTimeout.
func NewNBPAPIClient(baseURL string, httpClient HTTPDoer, log logger.Logger, m *metrics.Metrics) *NBPAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBPAPIClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		parser:         NewXMLRateParser(),
		diffCalculator: service.NewRateDiffCalculator(),
		logger:         log.WithField("component", "nbp_api"),
		metrics:        m,
	}
}

// BuildURL returns the request URL for a currency and date range
func (c *NBPAPIClient) BuildURL(currency entity.Currency, dateRange entity.DateRange) string {
	query := url.Values{}
	query.Set("format", "xml")

	return fmt.Sprintf("%s/%s/%s/%s?%s",
		c.baseURL,
		url.PathEscape(currency.Code()),
		dateRange.FormatStart(),
		dateRange.FormatEnd(),
		query.Encode())
}

// GetExchangeRates fetches the rate series for a currency and date range and
// returns it with day-over-day differences attached. The NBP API is called
// exactly once.
func (c *NBPAPIClient) GetExchangeRates(ctx context.Context, currency entity.Currency, dateRange entity.DateRange) ([]entity.RateWithDiff, error) {
	requestID := middleware.GetRequestID(ctx)
	reqURL := c.BuildURL(currency, dateRange)
	startTime := time.Now()

	c.logger.Debug("Sending NBP API request", map[string]interface{}{
		"request_id": requestID,
		"url":        reqURL,
	})

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		outcome := metrics.OutcomeTransportError
		var upstreamErr *entity.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.Err == nil {
			outcome = metrics.OutcomeStatusError
		}
		c.metrics.ObserveUpstreamRequest(currency.String(), outcome, time.Since(startTime))

		c.logger.Error("NBP API request failed", map[string]interface{}{
			"request_id":  requestID,
			"url":         reqURL,
			"duration_ms": time.Since(startTime).Milliseconds(),
			"error":       err.Error(),
		})
		return nil, err
	}

	rates, err := c.parser.Parse(body)
	if err != nil {
		c.metrics.ObserveUpstreamRequest(currency.String(), metrics.OutcomeParseError, time.Since(startTime))

		c.logger.Error("Failed to parse NBP API response", map[string]interface{}{
			"request_id": requestID,
			"url":        reqURL,
			"error":      err.Error(),
		})
		return nil, err
	}

	c.metrics.ObserveUpstreamRequest(currency.String(), metrics.OutcomeSuccess, time.Since(startTime))

	c.logger.Info("NBP API request completed", map[string]interface{}{
		"request_id":  requestID,
		"currency":    currency.String(),
		"start":       dateRange.FormatStart(),
		"end":         dateRange.FormatEnd(),
		"rates":       len(rates),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return c.diffCalculator.Calculate(rates), nil
}

// fetch performs the GET request and returns the body of a 200 response
func (c *NBPAPIClient) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &entity.UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &entity.UpstreamError{Err: fmt.Errorf("failed to execute request: %w", err)}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &entity.UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &entity.UpstreamError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return body, nil
}
