// Package ports defines the contracts between the analytics core and its
// infrastructure: the read-only order/bill/table store, the item rating
// store, transaction boundaries and metrics.
package ports

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

// OrderFilter narrows ListOrders. Zero values mean "no constraint", except
// From/To which are always applied as [From, To).
type OrderFilter struct {
	From        time.Time
	To          time.Time
	Status      *order.Status
	TableID     *kernel.UUID
	TableNumber string // case-insensitive substring
	Offset      int
	Limit       int
}

// OrderPage is one page of orders plus the total number of matches.
type OrderPage struct {
	Orders []*order.Order
	Total  int64
}

// AnalyticsReader is the read-only store surface every aggregate query runs
// against. Every method is scoped to one restaurant and reads independently;
// no snapshot is shared between calls.
type AnalyticsReader interface {
	// PaidBills returns PAID bills with paidAt in [from, to).
	PaidBills(ctx context.Context, restaurant kernel.RestaurantID, from, to time.Time) ([]bill.Bill, error)

	// ServedOrders returns served orders submitted in [from, to), lines
	// included, in insertion order.
	ServedOrders(ctx context.Context, restaurant kernel.RestaurantID, from, to time.Time) ([]*order.Order, error)

	// ActiveOrders returns every order in a non-terminal state, regardless of age.
	ActiveOrders(ctx context.Context, restaurant kernel.RestaurantID) ([]*order.Order, error)

	// RecentOrders returns the newest limit orders of any status submitted in
	// [from, to), lines included. The result is in insertion order (oldest
	// first) so callers can break submission time ties themselves.
	RecentOrders(ctx context.Context, restaurant kernel.RestaurantID, from, to time.Time, limit int) ([]*order.Order, error)

	// CountTables returns the number of tables of the restaurant.
	CountTables(ctx context.Context, restaurant kernel.RestaurantID) (int64, error)

	// ListOrders returns a page of orders, newest first.
	ListOrders(ctx context.Context, restaurant kernel.RestaurantID, filter OrderFilter) (OrderPage, error)
}
