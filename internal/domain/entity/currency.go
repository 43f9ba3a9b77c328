package entity

import (
	"strings"
)

// Currency is one of the foreign currencies quoted in the NBP table C
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	CHF Currency = "CHF"
)

// SupportedCurrencies lists every currency the API accepts, in display order
var SupportedCurrencies = []Currency{EUR, USD, CHF}

// ParseCurrency resolves a case-insensitive currency code
func ParseCurrency(code string) (Currency, error) {
	upper := strings.ToUpper(code)
	for _, c := range SupportedCurrencies {
		if string(c) == upper {
			return c, nil
		}
	}

	return "", &UnsupportedCurrencyError{
		Code:    code,
		Allowed: SupportedCurrencies,
	}
}

// String returns the canonical uppercase code
func (c Currency) String() string {
	return string(c)
}

// Code returns the lowercase code used in NBP API paths
func (c Currency) Code() string {
	return strings.ToLower(string(c))
}
