package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"
)

var (
	ErrRecomputeRestaurantRatingsCommandIsNotConstructed = errors.New(
		"RecomputeRestaurantRatingsCommand must be created via NewRecomputeRestaurantRatingsCommand constructor",
	)
)

// RecomputeRestaurantRatingsCommand repairs the rating of every rated item of
// a restaurant. It is issued periodically by the rating recompute job.
type RecomputeRestaurantRatingsCommand struct {
	restaurant kernel.RestaurantID

	guard guard.ConstructorGuard
}

func NewRecomputeRestaurantRatingsCommand(restaurant kernel.RestaurantID) (RecomputeRestaurantRatingsCommand, error) {
	if err := restaurant.Validate(); err != nil {
		return RecomputeRestaurantRatingsCommand{}, err
	}
	return RecomputeRestaurantRatingsCommand{
		restaurant: restaurant,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RecomputeRestaurantRatingsCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeRestaurantRatingsCommandIsNotConstructed)
}

func (c RecomputeRestaurantRatingsCommand) Restaurant() kernel.RestaurantID { return c.restaurant }
