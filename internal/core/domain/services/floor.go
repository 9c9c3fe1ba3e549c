package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

const previewLines = 4

// RecentOrder is the dashboard summary of one order.
type RecentOrder struct {
	OrderID      kernel.UUID
	TableNumber  string
	Status       order.Status
	SubmittedAt  time.Time
	TotalCents   int64
	ItemsSummary string
}

// ServingTables counts distinct tables holding an active order. Orders without
// a table id are told apart by their table number.
func ServingTables(orders []*order.Order) int {
	tables := make(map[string]struct{})
	for _, o := range orders {
		if !o.Status().IsActive() {
			continue
		}
		key := "number:" + o.TableNumber()
		if o.TableID().Validate() == nil {
			key = "id:" + o.TableID().String()
		}
		tables[key] = struct{}{}
	}
	return len(tables)
}

// SummarizeRecentOrders returns the newest limit orders. Orders submitted at the
// same instant keep the later one first, so the input must be in insertion order.
func SummarizeRecentOrders(orders []*order.Order, limit int) []RecentOrder {
	idx := make([]int, len(orders))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if c := orders[b].SubmittedAt().Compare(orders[a].SubmittedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b, a)
	})
	if limit >= 0 && len(idx) > limit {
		idx = idx[:limit]
	}

	out := make([]RecentOrder, 0, len(idx))
	for _, i := range idx {
		o := orders[i]
		out = append(out, RecentOrder{
			OrderID:      o.ID(),
			TableNumber:  o.TableNumber(),
			Status:       o.Status(),
			SubmittedAt:  o.SubmittedAt(),
			TotalCents:   o.TotalCents(),
			ItemsSummary: ItemsPreview(o.Lines()),
		})
	}
	return out
}

// ItemsPreview renders the first four lines as "2x Pho, 1x Tea" and appends
// " +K more" when K lines were left out.
func ItemsPreview(lines []order.Line) string {
	parts := make([]string, 0, previewLines)
	for i, l := range lines {
		if i == previewLines {
			break
		}
		parts = append(parts, l.Preview())
	}
	s := strings.Join(parts, ", ")
	if more := len(lines) - previewLines; more > 0 {
		s += fmt.Sprintf(" +%d more", more)
	}
	return s
}
