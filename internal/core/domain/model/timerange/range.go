package timerange

import "time"

// Range is a resolved half-open window [From, To) with its bucket keys.
// From and To are UTC instants; bucketing uses the business timezone.
type Range struct {
	Period      Period
	From        time.Time
	To          time.Time
	Granularity Granularity
	BucketKeys  []string

	loc *time.Location
}

// Contains reports whether t falls inside [From, To).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// Location returns the business timezone the range was resolved in.
func (r Range) Location() *time.Location {
	if r.loc == nil {
		return time.UTC
	}
	return r.loc
}

// BucketKeyOf maps an instant to its bucket key: a calendar date for daily
// ranges, an ISO week id for monthly ones.
func (r Range) BucketKeyOf(t time.Time) string {
	local := t.In(r.Location())
	if r.Granularity == ISOWeekly {
		return isoWeekKey(local)
	}
	return local.Format(AnchorDateLayout)
}

// Label renders the inclusive local date span, e.g. "2024-03-04..2024-03-10".
func (r Range) Label() string {
	first := r.From.In(r.Location())
	last := r.To.In(r.Location()).AddDate(0, 0, -1)
	return first.Format(AnchorDateLayout) + ".." + last.Format(AnchorDateLayout)
}

// Days is the number of calendar days covered.
func (r Range) Days() int {
	first := r.From.In(r.Location())
	n := 0
	for d := first; d.Before(r.To); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location()) {
		n++
	}
	return n
}
