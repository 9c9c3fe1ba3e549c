package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/pkg/guard"
)

var (
	ErrApplyReviewEventCommandIsNotConstructed = errors.New(
		"ApplyReviewEventCommand must be created via NewReviewCreatedCommand or NewReviewRemovedCommand constructor",
	)
)

// ApplyReviewEventCommand folds one review lifecycle event into the item's
// running rating.
//
// Example:
//
//	cmd, err := NewReviewCreatedCommand(restaurantID, itemID, 5)
//	if err != nil {
//	    return err // rating outside 1..5
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyReviewEventCommand struct {
	restaurant kernel.RestaurantID
	itemID     kernel.UUID
	delta      rating.Delta
	stars      int

	guard guard.ConstructorGuard
}

// NewReviewCreatedCommand records a newly published review.
func NewReviewCreatedCommand(restaurant kernel.RestaurantID, itemID kernel.UUID, stars int) (ApplyReviewEventCommand, error) {
	return newApplyReviewEventCommand(restaurant, itemID, rating.Added, stars)
}

// NewReviewRemovedCommand records a deleted or unpublished review.
func NewReviewRemovedCommand(restaurant kernel.RestaurantID, itemID kernel.UUID, stars int) (ApplyReviewEventCommand, error) {
	return newApplyReviewEventCommand(restaurant, itemID, rating.Removed, stars)
}

func newApplyReviewEventCommand(
	restaurant kernel.RestaurantID,
	itemID kernel.UUID,
	delta rating.Delta,
	stars int,
) (ApplyReviewEventCommand, error) {
	if err := errors.Join(
		restaurant.Validate(),
		itemID.Validate(),
		rating.ValidateStars(stars),
	); err != nil {
		return ApplyReviewEventCommand{}, err
	}

	return ApplyReviewEventCommand{
		restaurant: restaurant,
		itemID:     itemID,
		delta:      delta,
		stars:      stars,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyReviewEventCommand) Validate() error {
	return c.guard.Validate(ErrApplyReviewEventCommandIsNotConstructed)
}

func (c ApplyReviewEventCommand) Restaurant() kernel.RestaurantID { return c.restaurant }
func (c ApplyReviewEventCommand) ItemID() kernel.UUID { return c.itemID }
func (c ApplyReviewEventCommand) Delta() rating.Delta { return c.delta }
func (c ApplyReviewEventCommand) Stars() int { return c.stars }
