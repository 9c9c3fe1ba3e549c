package queries

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
)

const reportView = "report"

// GetReportOverviewQueryHandler is the aggregation engine for the report view:
// it resolves the period and runs six sub-queries concurrently.
type GetReportOverviewQueryHandler struct {
	queries  AggregateQueries
	resolver timerange.Resolver
	metrics  ports.AnalyticsMetrics
}

// NewGetReportOverviewQueryHandler creates the handler. metrics may be nil.
func NewGetReportOverviewQueryHandler(
	reader ports.AnalyticsReader,
	resolver timerange.Resolver,
	metrics ports.AnalyticsMetrics,
) GetReportOverviewQueryHandler {
	return GetReportOverviewQueryHandler{
		queries:  NewAggregateQueries(reader),
		resolver: resolver,
		metrics:  metrics,
	}
}

// Handle returns the report overview. Errors wrap timerange.ErrInvalidPeriod
// for a bad anchor date or ErrAggregationFailed for a failed read.
func (h GetReportOverviewQueryHandler) Handle(ctx context.Context, query GetReportOverviewQuery) (ReportOverview, error) {
	if err := query.Validate(); err != nil {
		return ReportOverview{}, err
	}

	rng, err := h.resolver.Resolve(query.Period(), query.AnchorDate())
	if err != nil {
		return ReportOverview{}, err
	}

	started := time.Now()
	overview, err := h.aggregate(ctx, query, rng)
	if h.metrics != nil {
		h.metrics.ObserveOverview(reportView, time.Since(started), err)
	}
	return overview, err
}

func (h GetReportOverviewQueryHandler) aggregate(
	ctx context.Context,
	query GetReportOverviewQuery,
	rng timerange.Range,
) (ReportOverview, error) {
	restaurant := query.Restaurant()

	var (
		revenue  int64
		series   []services.SeriesPoint
		served   services.ServedStats
		prep     services.PrepStats
		hours    []services.HourBucket
		topItems []services.TopItem
	)

	err := fanOut(ctx,
		subQuery{"revenueTotal", func(ctx context.Context) (err error) {
			revenue, err = h.queries.RevenueTotal(ctx, restaurant, rng)
			return err
		}},
		subQuery{"revenueSeries", func(ctx context.Context) (err error) {
			series, err = h.queries.RevenueSeries(ctx, restaurant, rng)
			return err
		}},
		subQuery{"ordersServed", func(ctx context.Context) (err error) {
			served, err = h.queries.OrdersServed(ctx, restaurant, rng)
			return err
		}},
		subQuery{"avgPrepTime", func(ctx context.Context) (err error) {
			prep, err = h.queries.AveragePrepTime(ctx, restaurant, rng)
			return err
		}},
		subQuery{"peakHours", func(ctx context.Context) (err error) {
			hours, err = h.queries.PeakHours(ctx, restaurant, rng)
			return err
		}},
		subQuery{"topItems", func(ctx context.Context) (err error) {
			topItems, err = h.queries.TopItems(ctx, restaurant, rng, services.ByQuantity)
			return err
		}},
	)
	if err != nil {
		return ReportOverview{}, err
	}

	return ReportOverview{
		Restaurant: restaurant,
		Range:      rng,
		Totals: ReportTotals{
			RevenueCents:       revenue,
			OrdersServed:       served.Count,
			AvgOrderValueCents: served.AvgOrderValueCents,
			AvgPrepTimeSeconds: prep.AvgSeconds,
			AvgPrepSampleSize:  prep.SampleSize,
		},
		RevenueSeries: series,
		PeakHours:     hours,
		TopItems:      topItems,
	}, nil
}
