package handler

import (
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
)

// RateResponse is one day of the rates endpoint payload
type RateResponse struct {
	Date     string   `json:"date"`
	BuyRate  float64  `json:"buyRate"`
	SellRate float64  `json:"sellRate"`
	BuyDiff  *float64 `json:"buyDiff"`
	SellDiff *float64 `json:"sellDiff"`
}

// RatesResponse represents the response for the rates endpoint
type RatesResponse struct {
	Data []RateResponse `json:"data"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

func newRatesResponse(rates []entity.RateWithDiff) RatesResponse {
	data := make([]RateResponse, 0, len(rates))
	for _, rate := range rates {
		item := RateResponse{
			Date:     rate.Date.Format(entity.DateLayout),
			BuyRate:  rate.BuyRate.InexactFloat64(),
			SellRate: rate.SellRate.InexactFloat64(),
		}
		if rate.Diff != nil {
			buy := rate.Diff.Buy.InexactFloat64()
			sell := rate.Diff.Sell.InexactFloat64()
			item.BuyDiff = &buy
			item.SellDiff = &sell
		}
		data = append(data, item)
	}
	return RatesResponse{Data: data}
}
