package entity

import (
	"time"
)

const (
	// DateLayout is the only accepted date format, both inbound and upstream
	DateLayout = "2006-01-02"

	// MaxRangeDays is the largest allowed distance between start and end
	MaxRangeDays = 7
)

// DateRange is a validated, immutable pair of calendar dates
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange parses and validates a start/end pair in YYYY-MM-DD format
func NewDateRange(start, end string) (DateRange, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, ErrInvalidDateFormat
	}

	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, ErrInvalidDateFormat
	}

	if startDate.After(endDate) {
		return DateRange{}, ErrReversedRange
	}

	r := DateRange{start: startDate, end: endDate}
	if r.Days() > MaxRangeDays {
		return DateRange{}, ErrRangeTooLarge
	}

	return r, nil
}

// Start returns the first day of the range
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the last day of the range
func (r DateRange) End() time.Time {
	return r.end
}

// Days returns the number of whole days between start and end
func (r DateRange) Days() int {
	// Both bounds are UTC midnights, so the division is exact
	return int(r.end.Sub(r.start).Hours() / 24)
}

func (r DateRange) FormatStart() string {
	return r.start.Format(DateLayout)
}

func (r DateRange) FormatEnd() string {
	return r.end.Format(DateLayout)
}
