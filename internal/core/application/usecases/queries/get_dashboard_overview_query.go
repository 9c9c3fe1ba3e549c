package queries

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var (
	ErrGetDashboardOverviewQueryIsNotConstructed = errors.New(
		"GetDashboardOverviewQuery must be created via NewGetDashboardOverviewQuery constructor",
	)
)

const (
	DefaultRecentOrdersLimit = 10
	MaxRecentOrdersLimit     = 100
)

// GetDashboardOverviewQuery asks for the operational dashboard: today compared
// with yesterday, plus this week's revenue series.
type GetDashboardOverviewQuery struct {
	restaurant  kernel.RestaurantID
	anchorDate  string
	recentLimit int

	guard guard.ConstructorGuard
}

// NewGetDashboardOverviewQuery builds the query. anchorDate "" means today;
// recentLimit 0 means DefaultRecentOrdersLimit.
func NewGetDashboardOverviewQuery(
	restaurant kernel.RestaurantID,
	anchorDate string,
	recentLimit int,
) (GetDashboardOverviewQuery, error) {
	if err := restaurant.Validate(); err != nil {
		return GetDashboardOverviewQuery{}, err
	}
	if recentLimit == 0 {
		recentLimit = DefaultRecentOrdersLimit
	}
	if recentLimit < 1 || recentLimit > MaxRecentOrdersLimit {
		return GetDashboardOverviewQuery{}, errs.NewValueIsOutOfRangeError("recentLimit", recentLimit, 1, MaxRecentOrdersLimit)
	}

	return GetDashboardOverviewQuery{
		restaurant:  restaurant,
		anchorDate:  anchorDate,
		recentLimit: recentLimit,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetDashboardOverviewQuery) Validate() error {
	return q.guard.Validate(ErrGetDashboardOverviewQueryIsNotConstructed)
}

func (q GetDashboardOverviewQuery) Restaurant() kernel.RestaurantID { return q.restaurant }
func (q GetDashboardOverviewQuery) AnchorDate() string { return q.anchorDate }
func (q GetDashboardOverviewQuery) RecentLimit() int { return q.recentLimit }

// DashboardToday holds the anchor day's figures and their deltas against the
// day before. Deltas come from two independent reads and are not consistent
// with each other under concurrent writes.
type DashboardToday struct {
	RevenueCents       int64
	RevenueDeltaCents  int64
	OrdersServed       int
	OrdersServedDelta  int
	OccupiedTables     int
	TotalTables        int64
	AvgPrepTimeSeconds *float64
	AvgPrepSampleSize  int
	TopItems           []services.TopItem
	RecentOrders       []services.RecentOrder
}

type DashboardYesterday struct {
	RevenueCents int64
	OrdersServed int
}

type DashboardWeek struct {
	Range         timerange.Range
	RevenueSeries []services.SeriesPoint
}

// DashboardOverview is the assembled dashboard view. TopItems are ranked by
// revenue.
type DashboardOverview struct {
	Restaurant     kernel.RestaurantID
	TodayRange     timerange.Range
	YesterdayRange timerange.Range
	Today          DashboardToday
	Yesterday      DashboardYesterday
	Week           DashboardWeek
}
