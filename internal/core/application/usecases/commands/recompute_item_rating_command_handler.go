package commands

import (
	"context"
	"errors"
	"log/slog"

	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

const recomputeKind = "recompute"

// RecomputeItemRatingResult is the freshly derived rating. Found is false when
// the item does not exist or was deleted.
type RecomputeItemRatingResult struct {
	Found  bool
	Rating rating.Aggregate
}

// RecomputeItemRatingCommandHandler is the repair path of rating maintenance:
// the stored value is replaced by a full aggregation over published reviews,
// whatever the incremental history was. Running it twice without review changes
// in between gives the same result. Concurrent incremental updates are not
// blocked; the last writer wins.
//
// Example:
//
//	cmd, _ := NewRecomputeItemRatingCommand(restaurantID, itemID)
//	result, err := handler.Handle(ctx, cmd)
//	if err == nil && result.Found {
//	    fmt.Println(result.Rating.Count(), result.Rating.Average())
//	}
type RecomputeItemRatingCommandHandler struct {
	uowFactory RatingUoWFactory
	metrics    ports.AnalyticsMetrics
	logger     *slog.Logger
}

func NewRecomputeItemRatingCommandHandler(
	uowFactory RatingUoWFactory,
	metrics ports.AnalyticsMetrics,
	logger *slog.Logger,
) RecomputeItemRatingCommandHandler {
	return RecomputeItemRatingCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
		logger:     logger.With("component", "RecomputeItemRatingCommandHandler"),
	}
}

func (h RecomputeItemRatingCommandHandler) Handle(
	ctx context.Context,
	cmd RecomputeItemRatingCommand,
) (RecomputeItemRatingResult, error) {
	if err := cmd.Validate(); err != nil {
		return RecomputeItemRatingResult{}, err
	}

	result, err := h.recompute(ctx, cmd)
	if h.metrics != nil {
		h.metrics.ObserveRatingUpdate(recomputeKind, err)
	}
	return result, err
}

func (h RecomputeItemRatingCommandHandler) recompute(
	ctx context.Context,
	cmd RecomputeItemRatingCommand,
) (RecomputeItemRatingResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RecomputeItemRatingResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ItemRatingRepository()

	_, err := repo.Get(ctx, cmd.Restaurant(), cmd.ItemID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		h.logger.InfoContext(ctx, "recompute for missing item ignored",
			"restaurant_id", cmd.Restaurant().String(),
			"item_id", cmd.ItemID().String())
		return RecomputeItemRatingResult{}, nil
	case errors.Is(err, rating.ErrCorruptAggregate):
		h.logger.WarnContext(ctx, "overwriting corrupt stored rating",
			"restaurant_id", cmd.Restaurant().String(),
			"item_id", cmd.ItemID().String(),
			"error", err)
	case err != nil:
		return RecomputeItemRatingResult{}, err
	}

	breakdown, err := repo.PublishedBreakdown(ctx, cmd.Restaurant(), cmd.ItemID())
	if err != nil {
		return RecomputeItemRatingResult{}, err
	}

	fresh, err := rating.FromBreakdown(breakdown)
	if err != nil {
		return RecomputeItemRatingResult{}, err
	}

	if err = repo.Save(ctx, cmd.Restaurant(), cmd.ItemID(), fresh); err != nil {
		return RecomputeItemRatingResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RecomputeItemRatingResult{}, err
	}

	return RecomputeItemRatingResult{Found: true, Rating: fresh}, nil
}
