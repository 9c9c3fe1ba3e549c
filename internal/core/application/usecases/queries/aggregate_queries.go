// Package queries contains the read-only analytics use cases: the individual
// aggregate statistics and the overview handlers that fan them out.
package queries

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// ErrAggregationFailed wraps the failure of any sub-query of an overview. The
// whole overview fails; partial results are never returned.
var ErrAggregationFailed = errors.New("aggregation failed")

// AggregateQueries is the battery of independent statistics. Each method does
// its own read through the AnalyticsReader and shares nothing with its siblings,
// so any subset may run concurrently.
type AggregateQueries struct {
	reader ports.AnalyticsReader
}

func NewAggregateQueries(reader ports.AnalyticsReader) AggregateQueries {
	return AggregateQueries{reader: reader}
}

// RevenueTotal sums PAID bills settled in the range.
func (q AggregateQueries) RevenueTotal(ctx context.Context, restaurant kernel.RestaurantID, rng timerange.Range) (int64, error) {
	bills, err := q.reader.PaidBills(ctx, restaurant, rng.From, rng.To)
	if err != nil {
		return 0, err
	}
	return services.SumRevenue(bills, rng), nil
}

// RevenueSeries returns one zero-filled point per bucket key of the range.
func (q AggregateQueries) RevenueSeries(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	rng timerange.Range,
) ([]services.SeriesPoint, error) {
	bills, err := q.reader.PaidBills(ctx, restaurant, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	return services.RevenueSeries(bills, rng), nil
}

// OrdersServed counts served orders and their average value.
func (q AggregateQueries) OrdersServed(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	rng timerange.Range,
) (services.ServedStats, error) {
	orders, err := q.reader.ServedOrders(ctx, restaurant, rng.From, rng.To)
	if err != nil {
		return services.ServedStats{}, err
	}
	return services.ServedTotals(orders, rng), nil
}

func (q AggregateQueries) AveragePrepTime(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	rng timerange.Range,
) (services.PrepStats, error) {
	orders, err := q.reader.ServedOrders(ctx, restaurant, rng.From, rng.To)
	if err != nil {
		return services.PrepStats{}, err
	}
	return services.PrepTime(orders, rng), nil
}

func (q AggregateQueries) PeakHours(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	rng timerange.Range,
) ([]services.HourBucket, error) {
	orders, err := q.reader.ServedOrders(ctx, restaurant, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	return services.PeakHours(orders, rng), nil
}

// TopItems ranks the top five items of served orders under ordering.
func (q AggregateQueries) TopItems(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	rng timerange.Range,
	ordering services.TopItemsOrdering,
) ([]services.TopItem, error) {
	orders, err := q.reader.ServedOrders(ctx, restaurant, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	return services.RankTopItems(orders, rng, ordering, services.DefaultTopItemsLimit), nil
}

// TablesCurrentlyServing counts distinct tables with an active order. It is
// not bounded by any time range.
func (q AggregateQueries) TablesCurrentlyServing(ctx context.Context, restaurant kernel.RestaurantID) (int, error) {
	orders, err := q.reader.ActiveOrders(ctx, restaurant)
	if err != nil {
		return 0, err
	}
	return services.ServingTables(orders), nil
}

// RecentOrders summarizes the newest limit orders submitted in the range.
func (q AggregateQueries) RecentOrders(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	rng timerange.Range,
	limit int,
) ([]services.RecentOrder, error) {
	orders, err := q.reader.RecentOrders(ctx, restaurant, rng.From, rng.To, limit)
	if err != nil {
		return nil, err
	}
	return services.SummarizeRecentOrders(orders, limit), nil
}

func (q AggregateQueries) TotalTables(ctx context.Context, restaurant kernel.RestaurantID) (int64, error) {
	return q.reader.CountTables(ctx, restaurant)
}

// subQuery is one named task of an overview fan-out. It writes its result into
// a field owned by the caller and nothing else.
type subQuery struct {
	name string
	run  func(ctx context.Context) error
}

// fanOut runs every sub-query concurrently and waits for all of them. The first
// failure cancels the context of the others and is returned wrapped in
// ErrAggregationFailed together with the sub-query name.
func fanOut(ctx context.Context, subQueries ...subQuery) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sq := range subQueries {
		g.Go(func() error {
			if err := sq.run(gctx); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrAggregationFailed, sq.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
