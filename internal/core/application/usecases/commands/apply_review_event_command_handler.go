package commands

import (
	"context"
	"errors"
	"log/slog"

	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// ApplyReviewEventResult reports whether the item existed and its new rating.
type ApplyReviewEventResult struct {
	Found  bool
	Rating rating.Aggregate
}

// ApplyReviewEventCommandHandler is the incremental path of rating maintenance.
//
// The read and the write happen in one transaction but the row is not locked:
// two events for the same item racing each other can lose one update. The
// periodic recompute repairs such drift.
type ApplyReviewEventCommandHandler struct {
	uowFactory RatingUoWFactory
	metrics    ports.AnalyticsMetrics
	logger     *slog.Logger
}

// NewApplyReviewEventCommandHandler creates the handler. metrics may be nil.
func NewApplyReviewEventCommandHandler(
	uowFactory RatingUoWFactory,
	metrics ports.AnalyticsMetrics,
	logger *slog.Logger,
) ApplyReviewEventCommandHandler {
	return ApplyReviewEventCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
		logger:     logger.With("component", "ApplyReviewEventCommandHandler"),
	}
}

// Handle reads the current aggregate, applies the event and saves the result.
// A missing or deleted item is not an error: the event is dropped and Found is
// false.
func (h ApplyReviewEventCommandHandler) Handle(ctx context.Context, cmd ApplyReviewEventCommand) (ApplyReviewEventResult, error) {
	if err := cmd.Validate(); err != nil {
		return ApplyReviewEventResult{}, err
	}

	result, err := h.apply(ctx, cmd)
	if h.metrics != nil {
		h.metrics.ObserveRatingUpdate(cmd.Delta().String(), err)
	}
	return result, err
}

func (h ApplyReviewEventCommandHandler) apply(ctx context.Context, cmd ApplyReviewEventCommand) (ApplyReviewEventResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ApplyReviewEventResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ItemRatingRepository()

	current, err := repo.Get(ctx, cmd.Restaurant(), cmd.ItemID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.InfoContext(ctx, "review event for missing item ignored",
			"restaurant_id", cmd.Restaurant().String(),
			"item_id", cmd.ItemID().String(),
			"event", cmd.Delta().String())
		return ApplyReviewEventResult{}, nil
	}
	if err != nil {
		return ApplyReviewEventResult{}, err
	}

	next, err := current.Apply(cmd.Delta(), cmd.Stars())
	if err != nil {
		return ApplyReviewEventResult{}, err
	}

	if err = repo.Save(ctx, cmd.Restaurant(), cmd.ItemID(), next); err != nil {
		return ApplyReviewEventResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ApplyReviewEventResult{}, err
	}

	return ApplyReviewEventResult{Found: true, Rating: next}, nil
}
