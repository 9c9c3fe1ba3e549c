package ratingrepo

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormItemRatingRepository implements ports.ItemRatingRepository using GORM.
// Soft-deleted items and reviews are invisible to every method.
type GormItemRatingRepository struct {
	db *gorm.DB
}

func NewGormItemRatingRepository(db *gorm.DB) *GormItemRatingRepository {
	return &GormItemRatingRepository{db: db}
}

// Get reads the stored rating columns of an item.
func (r *GormItemRatingRepository) Get(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	itemID kernel.UUID,
) (rating.Aggregate, error) {
	if err := errors.Join(restaurant.Validate(), itemID.Validate()); err != nil {
		return rating.Aggregate{}, err
	}

	var dto MenuItemDTO
	err := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID.Bytes(), restaurant.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rating.Aggregate{}, errs.NewObjectNotFoundError("itemId", itemID.String())
		}
		return rating.Aggregate{}, err
	}

	return toDomain(dto)
}

// Save overwrites the rating columns only; catalog fields are left untouched.
func (r *GormItemRatingRepository) Save(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	itemID kernel.UUID,
	agg rating.Aggregate,
) error {
	if err := agg.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&MenuItemDTO{}).
		Where("id = ? AND restaurant_id = ?", itemID.Bytes(), restaurant.String()).
		Updates(map[string]any{
			"rating_count":     agg.Count(),
			"rating_avg":       agg.Average(),
			"rating_breakdown": datatypes.NewJSONType(agg.Breakdown().Map()),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("itemId", itemID.String())
	}

	return nil
}

type starCount struct {
	Rating int
	N      int
}

// PublishedBreakdown groups the item's live published reviews by star value.
func (r *GormItemRatingRepository) PublishedBreakdown(
	ctx context.Context,
	restaurant kernel.RestaurantID,
	itemID kernel.UUID,
) (rating.Breakdown, error) {
	var rows []starCount
	err := r.db.WithContext(ctx).
		Model(&ItemReviewDTO{}).
		Select("rating, COUNT(*) AS n").
		Where("restaurant_id = ? AND item_id = ? AND status = ?", restaurant.String(), itemID.Bytes(), ReviewPublished).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return rating.Breakdown{}, err
	}

	var b rating.Breakdown
	for _, row := range rows {
		if rating.ValidateStars(row.Rating) != nil {
			continue
		}
		b[row.Rating-1] = row.N
	}
	return b, nil
}

// ListRatedItems returns live items with a non-empty stored rating or at least
// one live published review, ordered by id.
func (r *GormItemRatingRepository) ListRatedItems(ctx context.Context, restaurant kernel.RestaurantID) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&MenuItemDTO{}).
		Where("restaurant_id = ?", restaurant.String()).
		Where(`rating_count > 0 OR EXISTS (
			SELECT 1 FROM item_reviews ir
			WHERE ir.item_id = menu_items.id
				AND ir.restaurant_id = menu_items.restaurant_id
				AND ir.status = ?
				AND ir.deleted_at IS NULL
		)`, ReviewPublished).
		Order("id").
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		parsed, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}
