package queries

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/pkg/guard"
)

var (
	ErrGetReportOverviewQueryIsNotConstructed = errors.New(
		"GetReportOverviewQuery must be created via NewGetReportOverviewQuery constructor",
	)
)

// DefaultReportPeriod is used when the caller does not pick a period.
const DefaultReportPeriod = timerange.Week

// GetReportOverviewQuery asks for the report view of one restaurant over a
// resolved period.
//
// Example:
//
//	query, err := NewGetReportOverviewQuery(restaurantID, "month", "2024-03-06")
//	if err != nil {
//	    return err // wraps timerange.ErrInvalidPeriod
//	}
//
//	overview, err := handler.Handle(ctx, query)
type GetReportOverviewQuery struct {
	restaurant kernel.RestaurantID
	period     timerange.Period
	anchorDate string

	guard guard.ConstructorGuard
}

// NewGetReportOverviewQuery validates the scope and parses the period. An empty
// period means DefaultReportPeriod, an empty anchorDate means today. The anchor
// itself is validated when the range is resolved.
func NewGetReportOverviewQuery(restaurant kernel.RestaurantID, period, anchorDate string) (GetReportOverviewQuery, error) {
	if err := restaurant.Validate(); err != nil {
		return GetReportOverviewQuery{}, err
	}

	p := DefaultReportPeriod
	if period != "" {
		var err error
		if p, err = timerange.ParsePeriod(period); err != nil {
			return GetReportOverviewQuery{}, err
		}
	}

	return GetReportOverviewQuery{
		restaurant: restaurant,
		period:     p,
		anchorDate: anchorDate,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetReportOverviewQuery) Validate() error {
	return q.guard.Validate(ErrGetReportOverviewQueryIsNotConstructed)
}

func (q GetReportOverviewQuery) Restaurant() kernel.RestaurantID { return q.restaurant }
func (q GetReportOverviewQuery) Period() timerange.Period { return q.period }
func (q GetReportOverviewQuery) AnchorDate() string { return q.anchorDate }

// ReportTotals are the headline figures of a report.
type ReportTotals struct {
	RevenueCents       int64
	OrdersServed       int
	AvgOrderValueCents int64
	AvgPrepTimeSeconds *float64
	AvgPrepSampleSize  int
}

// ReportOverview is the assembled report view. TopItems are ranked by quantity.
type ReportOverview struct {
	Restaurant    kernel.RestaurantID
	Range         timerange.Range
	Totals        ReportTotals
	RevenueSeries []services.SeriesPoint
	PeakHours     []services.HourBucket
	TopItems      []services.TopItem
}
