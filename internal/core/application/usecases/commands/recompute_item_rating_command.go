package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"
)

var (
	ErrRecomputeItemRatingCommandIsNotConstructed = errors.New(
		"RecomputeItemRatingCommand must be created via NewRecomputeItemRatingCommand constructor",
	)
)

// RecomputeItemRatingCommand rebuilds one item's rating from its reviews.
type RecomputeItemRatingCommand struct {
	restaurant kernel.RestaurantID
	itemID     kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecomputeItemRatingCommand(restaurant kernel.RestaurantID, itemID kernel.UUID) (RecomputeItemRatingCommand, error) {
	if err := errors.Join(restaurant.Validate(), itemID.Validate()); err != nil {
		return RecomputeItemRatingCommand{}, err
	}

	return RecomputeItemRatingCommand{
		restaurant: restaurant,
		itemID:     itemID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RecomputeItemRatingCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeItemRatingCommandIsNotConstructed)
}

func (c RecomputeItemRatingCommand) Restaurant() kernel.RestaurantID { return c.restaurant }
func (c RecomputeItemRatingCommand) ItemID() kernel.UUID { return c.itemID }
