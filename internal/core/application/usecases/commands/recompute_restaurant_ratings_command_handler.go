package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"backoffice/internal/core/ports"
)

// RecomputeRestaurantRatingsResult summarizes one repair pass.
type RecomputeRestaurantRatingsResult struct {
	Items      int
	Recomputed int
	Failed     int
}

// RecomputeRestaurantRatingsCommandHandler recomputes item by item, each in
// its own transaction, so one failing item does not hold back the others.
type RecomputeRestaurantRatingsCommandHandler struct {
	uowFactory RatingUoWFactory
	item       RecomputeItemRatingCommandHandler
	logger     *slog.Logger
}

func NewRecomputeRestaurantRatingsCommandHandler(
	uowFactory RatingUoWFactory,
	metrics ports.AnalyticsMetrics,
	logger *slog.Logger,
) RecomputeRestaurantRatingsCommandHandler {
	return RecomputeRestaurantRatingsCommandHandler{
		uowFactory: uowFactory,
		item:       NewRecomputeItemRatingCommandHandler(uowFactory, metrics, logger),
		logger:     logger.With("component", "RecomputeRestaurantRatingsCommandHandler"),
	}
}

// Handle lists the rated items and recomputes each. Per-item failures are
// logged and joined into the returned error after every item was attempted.
func (h RecomputeRestaurantRatingsCommandHandler) Handle(
	ctx context.Context,
	cmd RecomputeRestaurantRatingsCommand,
) (RecomputeRestaurantRatingsResult, error) {
	if err := cmd.Validate(); err != nil {
		return RecomputeRestaurantRatingsResult{}, err
	}

	items, err := h.uowFactory.Create().ItemRatingRepository().ListRatedItems(ctx, cmd.Restaurant())
	if err != nil {
		return RecomputeRestaurantRatingsResult{}, fmt.Errorf("list rated items: %w", err)
	}

	result := RecomputeRestaurantRatingsResult{Items: len(items)}
	var errList []error
	for _, itemID := range items {
		if err = ctx.Err(); err != nil {
			errList = append(errList, err)
			break
		}

		itemCmd, err := NewRecomputeItemRatingCommand(cmd.Restaurant(), itemID)
		if err != nil {
			errList = append(errList, err)
			result.Failed++
			continue
		}

		res, err := h.item.Handle(ctx, itemCmd)
		if err != nil {
			h.logger.WarnContext(ctx, "item rating recompute failed",
				"restaurant_id", cmd.Restaurant().String(),
				"item_id", itemID.String(),
				"error", err)
			errList = append(errList, fmt.Errorf("item %s: %w", itemID, err))
			result.Failed++
			continue
		}
		if res.Found {
			result.Recomputed++
		}
	}

	return result, errors.Join(errList...)
}
