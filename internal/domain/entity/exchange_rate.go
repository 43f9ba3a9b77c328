package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a single buy/sell quote published for a trading day
type ExchangeRate struct {
	Date     time.Time       `json:"date"`
	BuyRate  decimal.Decimal `json:"buy_rate"`
	SellRate decimal.Decimal `json:"sell_rate"`
}

// RateDiff holds the change of both rates against the previous quote
type RateDiff struct {
	Buy  decimal.Decimal `json:"buy"`
	Sell decimal.Decimal `json:"sell"`
}

// RateWithDiff is an exchange rate with its change from the preceding quote.
// Diff is nil for the first quote of a sequence.
type RateWithDiff struct {
	ExchangeRate
	Diff *RateDiff `json:"diff"`
}
