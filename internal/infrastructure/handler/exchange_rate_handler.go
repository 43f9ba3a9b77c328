// Package handler exposes the rates API over HTTP
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/nbp-exchange-rates/internal/application/service"
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-exchange-rates/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RatesRoute is the path template of the rates endpoint
const RatesRoute = "/api/rates/{currency}/{start}/{end}"

// ExchangeRateHandler handles HTTP requests for NBP buy/sell rates
type ExchangeRateHandler struct {
	service *service.ExchangeRateService
	logger  logger.Logger
}

// NewExchangeRateHandler creates a new exchange rate handler
func NewExchangeRateHandler(service *service.ExchangeRateService, log logger.Logger) *ExchangeRateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateHandler{
		service: service,
		logger:  log,
	}
}

// GetRates handles retrieving daily rates with day-over-day diffs
func (h *ExchangeRateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	vars := mux.Vars(r)
	currency, start, end := vars["currency"], vars["start"], vars["end"]

	h.logger.Info("Handling get rates request", map[string]interface{}{
		"request_id": requestID,
		"currency":   currency,
		"start":      start,
		"end":        end,
	})

	result, err := h.service.GetRates(r.Context(), currency, start, end)
	if err != nil {
		statusCode := statusFor(err)
		fields := map[string]interface{}{
			"request_id": requestID,
			"currency":   currency,
			"status":     statusCode,
			"error":      err.Error(),
		}
		if statusCode == http.StatusInternalServerError {
			h.logger.Error("Unexpected error in rates handler", fields)
			sendErrorResponse(w, h.logger, "Internal server error", statusCode, requestID)
			return
		}

		h.logger.Warn("Rates request failed", fields)
		sendErrorResponse(w, h.logger, err.Error(), statusCode, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newRatesResponse(result.Rates))
}

// statusFor maps a service error onto the HTTP status it is reported with
func statusFor(err error) int {
	var parseErr *entity.ParseError
	var upstreamErr *entity.UpstreamError

	switch {
	case entity.IsValidationError(err):
		return http.StatusBadRequest
	case errors.As(err, &parseErr), errors.As(err, &upstreamErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Health reports that the process is serving requests
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// RegisterRoutes registers the rates handler routes
func (h *ExchangeRateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(RatesRoute, h.GetRates).Methods("GET")
	router.HandleFunc("/health", Health).Methods("GET")

	h.logger.Info("Rates routes registered", map[string]interface{}{
		"routes": []string{
			"GET " + RatesRoute,
			"GET /health",
		},
	})
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Message: message,
	})
}
