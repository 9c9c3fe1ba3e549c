package http

import (
	"time"

	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Range struct {
	Period      string    `json:"period"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Granularity string    `json:"granularity"`
	Label       string    `json:"label"`
	Timezone    string    `json:"timezone"`
}

type SeriesPoint struct {
	Key          string `json:"key"`
	RevenueCents int64  `json:"revenueCents"`
}

type HourBucket struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

type TopItem struct {
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	TotalQty     int    `json:"totalQty"`
	RevenueCents int64  `json:"revenueCents"`
	OrderCount   int    `json:"orderCount"`
}

type ReportTotals struct {
	RevenueCents       int64    `json:"revenueCents"`
	OrdersServed       int      `json:"ordersServed"`
	AvgOrderValueCents int64    `json:"avgOrderValueCents"`
	AvgPrepTimeSeconds *float64 `json:"avgPrepTimeSeconds"`
	AvgPrepSampleSize  int      `json:"avgPrepSampleSize"`
}

type ReportOverview struct {
	RestaurantID  string        `json:"restaurantId"`
	Range         Range         `json:"range"`
	Totals        ReportTotals  `json:"totals"`
	RevenueSeries []SeriesPoint `json:"revenueSeries"`
	PeakHours     []HourBucket  `json:"peakHours"`
	TopItems      []TopItem     `json:"topItems"`
}

type RecentOrder struct {
	OrderID      string    `json:"orderId"`
	TableNumber  string    `json:"tableNumber"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	TotalCents   int64     `json:"totalCents"`
	ItemsSummary string    `json:"itemsSummary"`
}

type DashboardToday struct {
	Range              Range         `json:"range"`
	RevenueCents       int64         `json:"revenueCents"`
	RevenueDeltaCents  int64         `json:"revenueDeltaCents"`
	OrdersServed       int           `json:"ordersServed"`
	OrdersServedDelta  int           `json:"ordersServedDelta"`
	OccupiedTables     int           `json:"occupiedTables"`
	TotalTables        int64         `json:"totalTables"`
	AvgPrepTimeSeconds *float64      `json:"avgPrepTimeSeconds"`
	AvgPrepSampleSize  int           `json:"avgPrepSampleSize"`
	TopItems           []TopItem     `json:"topItems"`
	RecentOrders       []RecentOrder `json:"recentOrders"`
}

type DashboardYesterday struct {
	Range        Range `json:"range"`
	RevenueCents int64 `json:"revenueCents"`
	OrdersServed int   `json:"ordersServed"`
}

type DashboardWeek struct {
	Range         Range         `json:"range"`
	RevenueSeries []SeriesPoint `json:"revenueSeries"`
}

type DashboardOverview struct {
	RestaurantID string             `json:"restaurantId"`
	Today        DashboardToday     `json:"today"`
	Yesterday    DashboardYesterday `json:"yesterday"`
	Week         DashboardWeek      `json:"week"`
}

type OrderListItem struct {
	OrderID      string    `json:"orderId"`
	TableID      *string   `json:"tableId"`
	TableNumber  string    `json:"tableNumber"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	TotalCents   int64     `json:"totalCents"`
	ItemCount    int       `json:"itemCount"`
	ItemsSummary string    `json:"itemsSummary"`
}

type OrderList struct {
	Range    Range           `json:"range"`
	Items    []OrderListItem `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Total    int64           `json:"total"`
}

type ItemRating struct {
	ItemID    string         `json:"itemId"`
	Count     int            `json:"count"`
	Average   float64        `json:"average"`
	Breakdown map[string]int `json:"breakdown"`
}

func toRange(r timerange.Range) Range {
	return Range{
		Period:      r.Period.String(),
		From:        r.From.UTC(),
		To:          r.To.UTC(),
		Granularity: r.Granularity.String(),
		Label:       r.Label(),
		Timezone:    r.Location().String(),
	}
}

func toSeries(points []services.SeriesPoint) []SeriesPoint {
	out := make([]SeriesPoint, len(points))
	for i, p := range points {
		out[i] = SeriesPoint{Key: p.Key, RevenueCents: p.RevenueCents}
	}
	return out
}

func toHours(hours []services.HourBucket) []HourBucket {
	out := make([]HourBucket, len(hours))
	for i, h := range hours {
		out[i] = HourBucket{Hour: h.Hour, Orders: h.Orders}
	}
	return out
}

func toTopItems(items []services.TopItem) []TopItem {
	out := make([]TopItem, len(items))
	for i, item := range items {
		out[i] = TopItem{
			ItemID:       item.ItemID.String(),
			Name:         item.Name,
			TotalQty:     item.TotalQty,
			RevenueCents: item.RevenueCents,
			OrderCount:   item.OrderCount,
		}
	}
	return out
}

func toReportOverview(o queries.ReportOverview) ReportOverview {
	return ReportOverview{
		RestaurantID: o.Restaurant.String(),
		Range:        toRange(o.Range),
		Totals: ReportTotals{
			RevenueCents:       o.Totals.RevenueCents,
			OrdersServed:       o.Totals.OrdersServed,
			AvgOrderValueCents: o.Totals.AvgOrderValueCents,
			AvgPrepTimeSeconds: o.Totals.AvgPrepTimeSeconds,
			AvgPrepSampleSize:  o.Totals.AvgPrepSampleSize,
		},
		RevenueSeries: toSeries(o.RevenueSeries),
		PeakHours:     toHours(o.PeakHours),
		TopItems:      toTopItems(o.TopItems),
	}
}

func toDashboardOverview(o queries.DashboardOverview) DashboardOverview {
	recent := make([]RecentOrder, len(o.Today.RecentOrders))
	for i, r := range o.Today.RecentOrders {
		recent[i] = RecentOrder{
			OrderID:      r.OrderID.String(),
			TableNumber:  r.TableNumber,
			Status:       r.Status.String(),
			SubmittedAt:  r.SubmittedAt.UTC(),
			TotalCents:   r.TotalCents,
			ItemsSummary: r.ItemsSummary,
		}
	}

	return DashboardOverview{
		RestaurantID: o.Restaurant.String(),
		Today: DashboardToday{
			Range:              toRange(o.TodayRange),
			RevenueCents:       o.Today.RevenueCents,
			RevenueDeltaCents:  o.Today.RevenueDeltaCents,
			OrdersServed:       o.Today.OrdersServed,
			OrdersServedDelta:  o.Today.OrdersServedDelta,
			OccupiedTables:     o.Today.OccupiedTables,
			TotalTables:        o.Today.TotalTables,
			AvgPrepTimeSeconds: o.Today.AvgPrepTimeSeconds,
			AvgPrepSampleSize:  o.Today.AvgPrepSampleSize,
			TopItems:           toTopItems(o.Today.TopItems),
			RecentOrders:       recent,
		},
		Yesterday: DashboardYesterday{
			Range:        toRange(o.YesterdayRange),
			RevenueCents: o.Yesterday.RevenueCents,
			OrdersServed: o.Yesterday.OrdersServed,
		},
		Week: DashboardWeek{
			Range:         toRange(o.Week.Range),
			RevenueSeries: toSeries(o.Week.RevenueSeries),
		},
	}
}

func toOrderList(r queries.ListOrdersResponse) OrderList {
	items := make([]OrderListItem, len(r.Items))
	for i, item := range r.Items {
		var tableID *string
		if item.TableID.Validate() == nil {
			s := item.TableID.String()
			tableID = &s
		}
		items[i] = OrderListItem{
			OrderID:      item.OrderID.String(),
			TableID:      tableID,
			TableNumber:  item.TableNumber,
			Status:       item.Status.String(),
			SubmittedAt:  item.SubmittedAt.UTC(),
			TotalCents:   item.TotalCents,
			ItemCount:    item.ItemCount,
			ItemsSummary: item.ItemsSummary,
		}
	}

	return OrderList{
		Range:    toRange(r.Range),
		Items:    items,
		Page:     r.Page,
		PageSize: r.PageSize,
		Total:    r.Total,
	}
}

func toItemRating(itemID string, agg rating.Aggregate) ItemRating {
	return ItemRating{
		ItemID:    itemID,
		Count:     agg.Count(),
		Average:   agg.Average(),
		Breakdown: agg.Breakdown().Map(),
	}
}
