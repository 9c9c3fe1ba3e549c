package timerange

import (
	"errors"
	"fmt"

	"backoffice/internal/pkg/errs"
)

// ErrInvalidPeriod reports an unrecognised period selector or a malformed anchor date.
var ErrInvalidPeriod = errors.New("invalid period")

// Period selects a reporting window relative to an anchor day.
type Period int

const (
	Unknown Period = iota
	Today
	Yesterday
	ThisWeek
	ThisMonth
	Week
	Month
)

func getPeriodStrings() map[Period]string {
	return map[Period]string{
		Today:     "today",
		Yesterday: "yesterday",
		ThisWeek:  "this_week",
		ThisMonth: "this_month",
		Week:      "week",
		Month:     "month",
	}
}

// ParsePeriod maps a wire value to a Period.
func ParsePeriod(s string) (Period, error) {
	for p, str := range getPeriodStrings() {
		if str == s {
			return p, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %w", ErrInvalidPeriod,
		errs.NewValueIsInvalidErrorWithCause("period", fmt.Errorf("%q is not a supported period", s)))
}

func (p Period) String() string {
	if str, ok := getPeriodStrings()[p]; ok {
		return str
	}
	return "unknown"
}

func (p Period) Validate() error {
	if _, ok := getPeriodStrings()[p]; !ok {
		return fmt.Errorf("%w: %w", ErrInvalidPeriod,
			errs.NewValueIsInvalidErrorWithCause("period", fmt.Errorf("%d is not a supported period", p)))
	}
	return nil
}

// Granularity reports how the period is bucketed.
func (p Period) Granularity() Granularity {
	switch p {
	case ThisMonth, Month:
		return ISOWeekly
	default:
		return Daily
	}
}

// Granularity is the bucket size of a series.
type Granularity int

const (
	Daily Granularity = iota
	ISOWeekly
)

func (g Granularity) String() string {
	if g == ISOWeekly {
		return "iso_week"
	}
	return "day"
}
