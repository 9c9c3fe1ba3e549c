package commands_test

import (
	"errors"
	"fmt"
	"testing"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRecomputeItemRatingCommand(t *testing.T) {
	_, err := commands.NewRecomputeItemRatingCommand(restaurant, kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	cmd, err := commands.NewRecomputeItemRatingCommand(restaurant, kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
}

func TestRecomputeItemRatingCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	cmd, _ := commands.NewRecomputeItemRatingCommand(restaurant, itemID)

	drifted, err := rating.RestoreAggregate(7, 1.5, rating.Breakdown{7, 0, 0, 0, 0})
	require.NoError(t, err)

	repo := new(MockItemRatingRepository)
	uow := new(MockRatingUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ItemRatingRepository").Return(repo).Once(),
		repo.On("Get", ctx, restaurant, itemID).Return(drifted, nil).Once(),
		repo.On("PublishedBreakdown", ctx, restaurant, itemID).Return(rating.Breakdown{0, 0, 0, 0, 2}, nil).Once(),
		repo.On("Save", ctx, restaurant, itemID, mock.MatchedBy(func(agg rating.Aggregate) bool {
			return agg.Count() == 2 && agg.Average() == 5
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRatingUoWFactory)
	factory.On("Create").Return(uow).Once()

	metrics := new(MockAnalyticsMetrics)
	metrics.On("ObserveRatingUpdate", "recompute", nil).Return().Once()

	h := commands.NewRecomputeItemRatingCommandHandler(factory, metrics, discardLogger())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, rating.Breakdown{0, 0, 0, 0, 2}, result.Rating.Breakdown())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestRecomputeItemRatingCommandHandler_Handle_MissingItem(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	cmd, _ := commands.NewRecomputeItemRatingCommand(restaurant, itemID)

	repo := new(MockItemRatingRepository)
	uow := new(MockRatingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ItemRatingRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, restaurant, itemID).Return(nil, errs.NewObjectNotFoundError("itemId", itemID)).Once()

	factory := new(MockRatingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeItemRatingCommandHandler(factory, nil, discardLogger())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, result.Found)
	repo.AssertNotCalled(t, "PublishedBreakdown", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecomputeItemRatingCommandHandler_Handle_OverwritesCorruptRow(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	cmd, _ := commands.NewRecomputeItemRatingCommand(restaurant, itemID)
	corrupt := fmt.Errorf("%w: %w", rating.ErrCorruptAggregate, errs.NewValueIsInvalidError("count"))

	repo := new(MockItemRatingRepository)
	uow := new(MockRatingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ItemRatingRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, restaurant, itemID).Return(nil, corrupt).Once()
	repo.On("PublishedBreakdown", ctx, restaurant, itemID).Return(rating.Breakdown{0, 0, 0, 1, 0}, nil).Once()
	repo.On("Save", ctx, restaurant, itemID, mock.MatchedBy(func(agg rating.Aggregate) bool {
		return agg.Count() == 1 && agg.Average() == 4
	})).Return(nil).Once()

	factory := new(MockRatingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeItemRatingCommandHandler(factory, nil, discardLogger())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.Found)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRecomputeItemRatingCommandHandler_Handle_BreakdownError(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	cmd, _ := commands.NewRecomputeItemRatingCommand(restaurant, itemID)
	readErr := errors.New("read error")

	repo := new(MockItemRatingRepository)
	uow := new(MockRatingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ItemRatingRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, restaurant, itemID).Return(rating.NewAggregate(), nil).Once()
	repo.On("PublishedBreakdown", ctx, restaurant, itemID).Return(nil, readErr).Once()

	factory := new(MockRatingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeItemRatingCommandHandler(factory, nil, discardLogger())
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, readErr)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRatingMaintenance_IncrementalMatchesRecompute(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	store := newMemoryRatings(itemID)

	apply := commands.NewApplyReviewEventCommandHandler(store, nil, discardLogger())
	recompute := commands.NewRecomputeItemRatingCommandHandler(store, nil, discardLogger())

	for _, stars := range []int{5, 5, 3} {
		store.publish(itemID, stars)
		cmd, err := commands.NewReviewCreatedCommand(restaurant, itemID, stars)
		require.NoError(t, err)
		_, err = apply.Handle(ctx, cmd)
		require.NoError(t, err)
	}

	store.unpublish(itemID, 3)
	removed, err := commands.NewReviewRemovedCommand(restaurant, itemID, 3)
	require.NoError(t, err)
	incremental, err := apply.Handle(ctx, removed)
	require.NoError(t, err)

	assert.Equal(t, 2, incremental.Rating.Count())
	assert.InDelta(t, 5.00, incremental.Rating.Average(), 1e-9)
	assert.Equal(t, rating.Breakdown{0, 0, 0, 0, 2}, incremental.Rating.Breakdown())

	cmd, err := commands.NewRecomputeItemRatingCommand(restaurant, itemID)
	require.NoError(t, err)
	first, err := recompute.Handle(ctx, cmd)
	require.NoError(t, err)
	second, err := recompute.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, first.Rating.Equal(incremental.Rating), "recompute %s, incremental %s", first.Rating, incremental.Rating)
	assert.True(t, first.Rating.Equal(second.Rating))
	assert.Equal(t, first.Rating.Breakdown().Total(), first.Rating.Count())
}

func TestRatingMaintenance_RecomputeRepairsDrift(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	store := newMemoryRatings(itemID)
	apply := commands.NewApplyReviewEventCommandHandler(store, nil, discardLogger())

	// Two published reviews, but only one event reached the maintainer.
	store.publish(itemID, 4)
	store.publish(itemID, 2)
	cmd, _ := commands.NewReviewCreatedCommand(restaurant, itemID, 4)
	_, err := apply.Handle(ctx, cmd)
	require.NoError(t, err)

	recompute := commands.NewRecomputeItemRatingCommandHandler(store, nil, discardLogger())
	rc, _ := commands.NewRecomputeItemRatingCommand(restaurant, itemID)
	result, err := recompute.Handle(ctx, rc)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Rating.Count())
	assert.InDelta(t, 3.00, result.Rating.Average(), 1e-9)
}
