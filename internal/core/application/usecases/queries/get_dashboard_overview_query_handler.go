package queries

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
)

const dashboardView = "dashboard"

// GetDashboardOverviewQueryHandler is the aggregation engine for the dashboard:
// three ranges resolved from one anchor and ten concurrent sub-queries.
//
// Example:
//
//	handler := NewGetDashboardOverviewQueryHandler(reader, resolver, metrics)
//	query, _ := NewGetDashboardOverviewQuery(restaurantID, "", 0)
//
//	overview, err := handler.Handle(ctx, query)
//	if errors.Is(err, ErrAggregationFailed) {
//	    // one of the reads failed; nothing partial is returned
//	}
type GetDashboardOverviewQueryHandler struct {
	queries  AggregateQueries
	resolver timerange.Resolver
	metrics  ports.AnalyticsMetrics
}

func NewGetDashboardOverviewQueryHandler(
	reader ports.AnalyticsReader,
	resolver timerange.Resolver,
	metrics ports.AnalyticsMetrics,
) GetDashboardOverviewQueryHandler {
	return GetDashboardOverviewQueryHandler{
		queries:  NewAggregateQueries(reader),
		resolver: resolver,
		metrics:  metrics,
	}
}

func (h GetDashboardOverviewQueryHandler) Handle(
	ctx context.Context,
	query GetDashboardOverviewQuery,
) (DashboardOverview, error) {
	if err := query.Validate(); err != nil {
		return DashboardOverview{}, err
	}

	today, err := h.resolver.Resolve(timerange.Today, query.AnchorDate())
	if err != nil {
		return DashboardOverview{}, err
	}
	yesterday, err := h.resolver.Resolve(timerange.Yesterday, query.AnchorDate())
	if err != nil {
		return DashboardOverview{}, err
	}
	week, err := h.resolver.Resolve(timerange.ThisWeek, query.AnchorDate())
	if err != nil {
		return DashboardOverview{}, err
	}

	started := time.Now()
	overview, err := h.aggregate(ctx, query, today, yesterday, week)
	if h.metrics != nil {
		h.metrics.ObserveOverview(dashboardView, time.Since(started), err)
	}
	return overview, err
}

func (h GetDashboardOverviewQueryHandler) aggregate(
	ctx context.Context,
	query GetDashboardOverviewQuery,
	today, yesterday, week timerange.Range,
) (DashboardOverview, error) {
	restaurant := query.Restaurant()

	var (
		totalTables    int64
		todayRevenue   int64
		yRevenue       int64
		todayServed    services.ServedStats
		yServed        services.ServedStats
		occupiedTables int
		prep           services.PrepStats
		topItems       []services.TopItem
		recent         []services.RecentOrder
		weekSeries     []services.SeriesPoint
	)

	err := fanOut(ctx,
		subQuery{"totalTables", func(ctx context.Context) (err error) {
			totalTables, err = h.queries.TotalTables(ctx, restaurant)
			return err
		}},
		subQuery{"todayRevenue", func(ctx context.Context) (err error) {
			todayRevenue, err = h.queries.RevenueTotal(ctx, restaurant, today)
			return err
		}},
		subQuery{"yesterdayRevenue", func(ctx context.Context) (err error) {
			yRevenue, err = h.queries.RevenueTotal(ctx, restaurant, yesterday)
			return err
		}},
		subQuery{"todayOrdersServed", func(ctx context.Context) (err error) {
			todayServed, err = h.queries.OrdersServed(ctx, restaurant, today)
			return err
		}},
		subQuery{"yesterdayOrdersServed", func(ctx context.Context) (err error) {
			yServed, err = h.queries.OrdersServed(ctx, restaurant, yesterday)
			return err
		}},
		subQuery{"tablesServing", func(ctx context.Context) (err error) {
			occupiedTables, err = h.queries.TablesCurrentlyServing(ctx, restaurant)
			return err
		}},
		subQuery{"avgPrepTime", func(ctx context.Context) (err error) {
			prep, err = h.queries.AveragePrepTime(ctx, restaurant, today)
			return err
		}},
		subQuery{"topItems", func(ctx context.Context) (err error) {
			topItems, err = h.queries.TopItems(ctx, restaurant, today, services.ByRevenue)
			return err
		}},
		subQuery{"recentOrders", func(ctx context.Context) (err error) {
			recent, err = h.queries.RecentOrders(ctx, restaurant, today, query.RecentLimit())
			return err
		}},
		subQuery{"weekRevenueSeries", func(ctx context.Context) (err error) {
			weekSeries, err = h.queries.RevenueSeries(ctx, restaurant, week)
			return err
		}},
	)
	if err != nil {
		return DashboardOverview{}, err
	}

	return DashboardOverview{
		Restaurant:     restaurant,
		TodayRange:     today,
		YesterdayRange: yesterday,
		Today: DashboardToday{
			RevenueCents:       todayRevenue,
			RevenueDeltaCents:  todayRevenue - yRevenue,
			OrdersServed:       todayServed.Count,
			OrdersServedDelta:  todayServed.Count - yServed.Count,
			OccupiedTables:     occupiedTables,
			TotalTables:        totalTables,
			AvgPrepTimeSeconds: prep.AvgSeconds,
			AvgPrepSampleSize:  prep.SampleSize,
			TopItems:           topItems,
			RecentOrders:       recent,
		},
		Yesterday: DashboardYesterday{
			RevenueCents: yRevenue,
			OrdersServed: yServed.Count,
		},
		Week: DashboardWeek{
			Range:         week,
			RevenueSeries: weekSeries,
		},
	}, nil
}
