package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
)

// ItemRatingRepository stores the rating aggregate that lives on a menu item
// and reads the reviews it is derived from. Only the rating maintenance
// commands write through it.
type ItemRatingRepository interface {
	// Get returns the stored aggregate of an item. A missing or deleted item
	// yields an error wrapping errs.ErrObjectNotFound.
	Get(ctx context.Context, restaurant kernel.RestaurantID, itemID kernel.UUID) (rating.Aggregate, error)

	// Save overwrites the stored aggregate. Last writer wins.
	Save(ctx context.Context, restaurant kernel.RestaurantID, itemID kernel.UUID, agg rating.Aggregate) error

	// PublishedBreakdown counts the item's published, non-deleted reviews per
	// star value.
	PublishedBreakdown(ctx context.Context, restaurant kernel.RestaurantID, itemID kernel.UUID) (rating.Breakdown, error)

	// ListRatedItems returns the live items that have reviews or a non-empty
	// stored aggregate.
	ListRatedItems(ctx context.Context, restaurant kernel.RestaurantID) ([]kernel.UUID, error)
}
