package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors, caused by caller input
var (
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrReversedRange       = errors.New("start date must not be after end date")
	ErrRangeTooLarge       = fmt.Errorf("date range cannot exceed %d days", MaxRangeDays)
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// UnsupportedCurrencyError reports a currency code outside the allow-list
type UnsupportedCurrencyError struct {
	Code    string
	Allowed []Currency
}

func (e *UnsupportedCurrencyError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, c := range e.Allowed {
		allowed[i] = c.String()
	}
	return fmt.Sprintf("unsupported currency: %s, allowed: %s", e.Code, strings.Join(allowed, ", "))
}

// Is makes the error match ErrUnsupportedCurrency
func (e *UnsupportedCurrencyError) Is(target error) bool {
	return target == ErrUnsupportedCurrency
}

// IsValidationError reports whether err was caused by invalid caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDateFormat) ||
		errors.Is(err, ErrReversedRange) ||
		errors.Is(err, ErrRangeTooLarge) ||
		errors.Is(err, ErrUnsupportedCurrency)
}

// ParseError reports an upstream payload that could not be interpreted
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse NBP XML response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a non-OK status or a transport failure from the NBP API.
// Exactly one of StatusCode and Err is set.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("NBP API request failed: %v", e.Err)
	}
	return fmt.Sprintf("NBP API returned HTTP %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
