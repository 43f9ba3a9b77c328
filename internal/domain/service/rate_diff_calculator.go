package service

import (
	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
)

// DiffPrecision is the number of decimal places kept in rate differences
const DiffPrecision = 4

// RateDiffCalculator attaches day-over-day differences to a rate series
type RateDiffCalculator struct{}

// NewRateDiffCalculator creates a new diff calculator
func NewRateDiffCalculator() *RateDiffCalculator {
	return &RateDiffCalculator{}
}

// Calculate returns the rates in the same order, each one diffed against the
// element right before it. The first rate has no diff.
func (c *RateDiffCalculator) Calculate(rates []entity.ExchangeRate) []entity.RateWithDiff {
	result := make([]entity.RateWithDiff, 0, len(rates))

	for i, rate := range rates {
		withDiff := entity.RateWithDiff{ExchangeRate: rate}

		if i > 0 {
			previous := rates[i-1]
			withDiff.Diff = &entity.RateDiff{
				Buy:  rate.BuyRate.Sub(previous.BuyRate).Round(DiffPrecision),
				Sell: rate.SellRate.Sub(previous.SellRate).Round(DiffPrecision),
			}
		}

		result = append(result, withDiff)
	}

	return result
}
