package rating

import (
	"errors"
	"fmt"

	"backoffice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	MinStars = 1
	MaxStars = 5

	averagePlaces = 2
)

var (
	ErrAggregateIsNotConstructed = errors.New("Aggregate must be created via NewAggregate, RestoreAggregate or FromBreakdown")

	// ErrCorruptAggregate marks a stored statistic that cannot be restored.
	// Only a recompute repairs it.
	ErrCorruptAggregate = errors.New("stored rating aggregate is corrupt")
)

// Breakdown holds review counts per star value; index 0 is one star.
type Breakdown [MaxStars]int

// Of returns the count for a star value, 0 for values outside 1..5.
func (b Breakdown) Of(stars int) int {
	if stars < MinStars || stars > MaxStars {
		return 0
	}
	return b[stars-1]
}

// Total is the number of reviews across all star values.
func (b Breakdown) Total() int {
	total := 0
	for _, c := range b {
		total += c
	}
	return total
}

// Map renders the breakdown keyed by star value, all five keys present.
func (b Breakdown) Map() map[string]int {
	m := make(map[string]int, MaxStars)
	for stars := MinStars; stars <= MaxStars; stars++ {
		m[fmt.Sprint(stars)] = b[stars-1]
	}
	return m
}

func (b Breakdown) validate() error {
	for i, c := range b {
		if c < 0 {
			return errs.NewValueIsInvalidErrorWithCause("breakdown",
				fmt.Errorf("count for %d stars is negative: %d", i+1, c))
		}
	}
	return nil
}

// Delta is the direction of a review lifecycle event.
type Delta int

const (
	Removed Delta = -1
	Added   Delta = 1
)

func (d Delta) String() string {
	switch d {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Aggregate is the rating statistic of one item.
type Aggregate struct {
	count     int
	average   decimal.Decimal
	breakdown Breakdown

	isConstructed bool
}

// NewAggregate returns the statistic of an item without reviews.
func NewAggregate() Aggregate {
	return Aggregate{average: decimal.Zero, isConstructed: true}
}

// RestoreAggregate rebuilds a stored statistic. Negative counts, averages
// outside 0..5 and a count that differs from the breakdown total are rejected.
func RestoreAggregate(count int, average float64, breakdown Breakdown) (Aggregate, error) {
	var errList []error
	if count < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("count", count, 0, "unbounded"))
	}
	if average < 0 || average > MaxStars {
		errList = append(errList, errs.NewValueIsOutOfRangeError("average", average, 0, MaxStars))
	}
	if err := breakdown.validate(); err != nil {
		errList = append(errList, err)
	} else if total := breakdown.Total(); count >= 0 && count != total {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("count",
			fmt.Errorf("count %d does not match breakdown total %d", count, total)))
	}
	if err := errors.Join(errList...); err != nil {
		return Aggregate{}, err
	}

	return Aggregate{
		count:         count,
		average:       decimal.NewFromFloat(average).Round(averagePlaces),
		breakdown:     breakdown,
		isConstructed: true,
	}, nil
}

// FromBreakdown derives count and average from per-star counts.
//
// Example:
//
//	agg, _ := rating.FromBreakdown(rating.Breakdown{0, 0, 1, 0, 2})
//	agg.Count()   // 3
//	agg.Average() // 4.33
func FromBreakdown(b Breakdown) (Aggregate, error) {
	if err := b.validate(); err != nil {
		return Aggregate{}, err
	}

	count := b.Total()
	sum := decimal.Zero
	for stars := MinStars; stars <= MaxStars; stars++ {
		sum = sum.Add(decimal.NewFromInt(int64(stars * b.Of(stars))))
	}

	return Aggregate{
		count:         count,
		average:       mean(sum, count),
		breakdown:     b,
		isConstructed: true,
	}, nil
}

// Apply folds one review event into the statistic. The previous sum is
// average*count and counts never drop below zero. Removing a star value whose
// bucket is empty changes nothing, so the breakdown total stays equal to count.
func (a Aggregate) Apply(delta Delta, stars int) (Aggregate, error) {
	if err := a.Validate(); err != nil {
		return Aggregate{}, err
	}
	if err := ValidateStars(stars); err != nil {
		return Aggregate{}, err
	}
	if delta != Added && delta != Removed {
		return Aggregate{}, errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("%d is not a review event", delta))
	}

	if delta == Removed && (a.count == 0 || a.breakdown.Of(stars) == 0) {
		return a, nil
	}

	prevSum := a.average.Mul(decimal.NewFromInt(int64(a.count)))
	newSum := prevSum.Add(decimal.NewFromInt(int64(int(delta) * stars)))
	if newSum.IsNegative() {
		newSum = decimal.Zero
	}
	newCount := max(a.count+int(delta), 0)

	b := a.breakdown
	b[stars-1] = max(b[stars-1]+int(delta), 0)

	return Aggregate{
		count:         newCount,
		average:       mean(newSum, newCount),
		breakdown:     b,
		isConstructed: true,
	}, nil
}

func (a Aggregate) Validate() error {
	if !a.isConstructed {
		return ErrAggregateIsNotConstructed
	}
	return nil
}

func (a Aggregate) Count() int { return a.count }
func (a Aggregate) Breakdown() Breakdown { return a.breakdown }

// Average is rounded to two decimals.
func (a Aggregate) Average() float64 {
	f, _ := a.average.Float64()
	return f
}

// Equal compares the observable values.
func (a Aggregate) Equal(other Aggregate) bool {
	return a.count == other.count &&
		a.average.Equal(other.average) &&
		a.breakdown == other.breakdown
}

func (a Aggregate) String() string {
	return fmt.Sprintf("count=%d average=%s breakdown=%v", a.count, a.average.StringFixed(averagePlaces), a.breakdown.Map())
}

// ValidateStars rejects ratings outside 1..5.
func ValidateStars(stars int) error {
	if stars < MinStars || stars > MaxStars {
		return errs.NewValueIsOutOfRangeError("rating", stars, MinStars, MaxStars)
	}
	return nil
}

func mean(sum decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count))).Round(averagePlaces)
}
