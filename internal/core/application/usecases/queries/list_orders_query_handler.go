package queries

import (
	"context"
	"fmt"

	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
)

// ListOrdersQueryHandler pages orders newest first.
type ListOrdersQueryHandler struct {
	reader   ports.AnalyticsReader
	resolver timerange.Resolver
}

func NewListOrdersQueryHandler(reader ports.AnalyticsReader, resolver timerange.Resolver) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader, resolver: resolver}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersResponse{}, err
	}

	rng, err := h.resolver.Resolve(query.Preset(), query.AnchorDate())
	if err != nil {
		return ListOrdersResponse{}, err
	}

	page, err := h.reader.ListOrders(ctx, query.Restaurant(), ports.OrderFilter{
		From:        rng.From,
		To:          rng.To,
		Status:      query.Status(),
		TableID:     query.TableID(),
		TableNumber: query.TableNumber(),
		Offset:      (query.Page() - 1) * query.PageSize(),
		Limit:       query.PageSize(),
	})
	if err != nil {
		return ListOrdersResponse{}, fmt.Errorf("list orders: %w", err)
	}

	items := make([]OrderListItem, 0, len(page.Orders))
	for _, o := range page.Orders {
		lines := o.Lines()
		items = append(items, OrderListItem{
			OrderID:      o.ID(),
			TableID:      o.TableID(),
			TableNumber:  o.TableNumber(),
			Status:       o.Status(),
			SubmittedAt:  o.SubmittedAt(),
			TotalCents:   o.TotalCents(),
			ItemCount:    len(lines),
			ItemsSummary: services.ItemsPreview(lines),
		})
	}

	return ListOrdersResponse{
		Range:    rng,
		Items:    items,
		Page:     query.Page(),
		PageSize: query.PageSize(),
		Total:    page.Total,
	}, nil
}
