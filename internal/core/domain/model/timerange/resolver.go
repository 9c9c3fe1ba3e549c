package timerange

import (
	"fmt"
	"time"
	_ "time/tzdata" // the business timezone must resolve on hosts without zoneinfo

	"backoffice/internal/pkg/errs"
)

// DefaultBusinessTimezone is the zone all calendar bucketing happens in.
const DefaultBusinessTimezone = "Asia/Ho_Chi_Minh"

// AnchorDateLayout is the accepted anchor date format.
const AnchorDateLayout = "2006-01-02"

// Resolver turns period selectors into ranges. The zero value is not usable.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// NewResolver builds a resolver for loc. A nil clock defaults to time.Now.
func NewResolver(loc *time.Location, now func() time.Time) (Resolver, error) {
	if loc == nil {
		return Resolver{}, errs.NewValueIsRequiredError("location")
	}
	if now == nil {
		now = time.Now
	}
	return Resolver{loc: loc, now: now}, nil
}

// LoadResolver builds a resolver for an IANA zone name.
func LoadResolver(zone string, now func() time.Time) (Resolver, error) {
	if zone == "" {
		zone = DefaultBusinessTimezone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Resolver{}, errs.NewValueIsInvalidErrorWithCause("timezone", err)
	}
	return NewResolver(loc, now)
}

// Location returns the business timezone.
func (r Resolver) Location() *time.Location {
	return r.loc
}

// ResolveString parses the period selector and resolves it.
func (r Resolver) ResolveString(period, anchorDate string) (Range, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return Range{}, err
	}
	return r.Resolve(p, anchorDate)
}

// Resolve computes the range for period around anchorDate ("" means today in
// the business timezone).
func (r Resolver) Resolve(period Period, anchorDate string) (Range, error) {
	if err := period.Validate(); err != nil {
		return Range{}, err
	}

	anchor, err := r.anchorDay(anchorDate)
	if err != nil {
		return Range{}, err
	}

	var from, to time.Time
	switch period {
	case Today:
		from, to = anchor, r.addDays(anchor, 1)
	case Yesterday:
		from, to = r.addDays(anchor, -1), anchor
	case ThisWeek, Week:
		from = r.addDays(anchor, -isoWeekdayOffset(anchor))
		to = r.addDays(from, 7)
	case ThisMonth, Month:
		from = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, r.loc)
		to = time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, r.loc)
	}

	g := period.Granularity()
	var keys []string
	if g == ISOWeekly {
		keys = r.isoWeekKeys(from, to)
	} else {
		keys = r.dateKeys(from, to)
	}

	return Range{
		Period:      period,
		From:        from.UTC(),
		To:          to.UTC(),
		Granularity: g,
		BucketKeys:  keys,
		loc:         r.loc,
	}, nil
}

func (r Resolver) anchorDay(anchorDate string) (time.Time, error) {
	if anchorDate == "" {
		now := r.now().In(r.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc), nil
	}

	t, err := time.ParseInLocation(AnchorDateLayout, anchorDate, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidPeriod,
			errs.NewValueIsInvalidErrorWithCause("anchorDate", err))
	}
	return t, nil
}

// addDays moves by whole calendar days, keeping midnight in the business zone
// even across offset changes.
func (r Resolver) addDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, r.loc)
}

func (r Resolver) dateKeys(from, to time.Time) []string {
	keys := make([]string, 0, 7)
	for d := from; d.Before(to); d = r.addDays(d, 1) {
		keys = append(keys, d.Format(AnchorDateLayout))
	}
	return keys
}

func (r Resolver) isoWeekKeys(from, to time.Time) []string {
	keys := make([]string, 0, 6)
	seen := make(map[string]struct{}, 6)
	for d := from; d.Before(to); d = r.addDays(d, 1) {
		k := isoWeekKey(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// isoWeekdayOffset is the number of days since Monday.
func isoWeekdayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
