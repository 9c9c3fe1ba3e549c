package services

import (
	"cmp"
	"slices"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/timerange"
)

// DefaultTopItemsLimit is the number of ranked items both views return.
const DefaultTopItemsLimit = 5

// ServedStats is the count, sum and rounded mean of served order totals.
type ServedStats struct {
	Count              int
	SumCents           int64
	AvgOrderValueCents int64
}

// PrepStats is the full-span preparation time over served orders.
// AvgSeconds is nil when no order had a timed line.
type PrepStats struct {
	AvgSeconds *float64
	SampleSize int
}

// HourBucket is the number of served orders submitted in one local hour.
type HourBucket struct {
	Hour   int
	Orders int
}

// TopItem is one ranked menu item.
type TopItem struct {
	ItemID       kernel.UUID
	Name         string
	TotalQty     int
	RevenueCents int64
	OrderCount   int
}

// TopItemsOrdering selects how RankTopItems sorts.
type TopItemsOrdering int

const (
	// ByQuantity sorts by total quantity only.
	ByQuantity TopItemsOrdering = iota
	// ByRevenue sorts by revenue, then quantity, then distinct order count.
	ByRevenue
)

// ServedTotals counts served orders submitted in the range and averages their
// totals. The average is 0 for an empty range.
func ServedTotals(orders []*order.Order, rng timerange.Range) ServedStats {
	var stats ServedStats
	for _, o := range orders {
		if !isServedIn(o, rng) {
			continue
		}
		stats.Count++
		stats.SumCents += o.TotalCents()
	}
	stats.AvgOrderValueCents = kernel.RoundedMean(stats.SumCents, int64(stats.Count))
	return stats
}

// PrepTime averages Order.PrepSpan over served orders in the range. Orders
// without a timed line are left out of the sample.
func PrepTime(orders []*order.Order, rng timerange.Range) PrepStats {
	var (
		total time.Duration
		stats PrepStats
	)
	for _, o := range orders {
		if !isServedIn(o, rng) {
			continue
		}
		span, ok := o.PrepSpan()
		if !ok {
			continue
		}
		total += span
		stats.SampleSize++
	}
	if stats.SampleSize > 0 {
		avg := total.Seconds() / float64(stats.SampleSize)
		stats.AvgSeconds = &avg
	}
	return stats
}

// PeakHours is a 24-bucket histogram of served orders by local submission hour.
func PeakHours(orders []*order.Order, rng timerange.Range) []HourBucket {
	hours := make([]HourBucket, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	loc := rng.Location()
	for _, o := range orders {
		if isServedIn(o, rng) {
			hours[o.SubmittedAt().In(loc).Hour()].Orders++
		}
	}
	return hours
}

// RankTopItems explodes the non-cancelled lines of served orders in the range,
// groups them by item and returns the first limit items under ordering.
// Remaining ties are broken by item id. An item's name is the first one seen in
// input order.
func RankTopItems(orders []*order.Order, rng timerange.Range, ordering TopItemsOrdering, limit int) []TopItem {
	type acc struct {
		item   TopItem
		orders map[kernel.UUID]struct{}
	}

	var (
		byItem = make(map[kernel.UUID]*acc)
		seen   []kernel.UUID
	)
	for _, o := range orders {
		if !isServedIn(o, rng) {
			continue
		}
		for _, l := range o.Lines() {
			if l.IsCancelled() {
				continue
			}
			a, ok := byItem[l.ItemID()]
			if !ok {
				a = &acc{
					item:   TopItem{ItemID: l.ItemID(), Name: l.Name()},
					orders: make(map[kernel.UUID]struct{}),
				}
				byItem[l.ItemID()] = a
				seen = append(seen, l.ItemID())
			}
			a.item.TotalQty += l.Quantity()
			a.item.RevenueCents += l.Total()
			a.orders[o.ID()] = struct{}{}
		}
	}

	items := make([]TopItem, 0, len(seen))
	for _, id := range seen {
		a := byItem[id]
		a.item.OrderCount = len(a.orders)
		items = append(items, a.item)
	}

	slices.SortFunc(items, func(a, b TopItem) int {
		if ordering == ByRevenue {
			if c := cmp.Compare(b.RevenueCents, a.RevenueCents); c != 0 {
				return c
			}
			if c := cmp.Compare(b.TotalQty, a.TotalQty); c != 0 {
				return c
			}
			if c := cmp.Compare(b.OrderCount, a.OrderCount); c != 0 {
				return c
			}
		} else if c := cmp.Compare(b.TotalQty, a.TotalQty); c != 0 {
			return c
		}
		return a.ItemID.Compare(b.ItemID)
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func isServedIn(o *order.Order, rng timerange.Range) bool {
	return o.Status() == order.Served && rng.Contains(o.SubmittedAt())
}
