// Package ratingrepo stores the rating aggregate that lives on a menu item and
// reads the item reviews it is derived from.
package ratingrepo

import (
	"fmt"
	"strconv"
	"time"

	"backoffice/internal/core/domain/model/rating"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewPublished is the only review status that counts towards a rating.
const ReviewPublished = "published"

// MenuItemDTO is the slice of the menu item row this service owns: the rating
// columns. The catalog fields are managed elsewhere and only kept here so the
// schema can be migrated in tests.
type MenuItemDTO struct {
	ID              uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	RestaurantID    string                             `gorm:"not null;index"`
	Name            string                             `gorm:"not null"`
	RatingCount     int                                `gorm:"not null;default:0"`
	RatingAvg       float64                            `gorm:"type:numeric(3,2);not null;default:0"`
	RatingBreakdown datatypes.JSONType[map[string]int] `gorm:"type:jsonb"`
	DeletedAt       gorm.DeletedAt                     `gorm:"index"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// ItemReviewDTO is a customer review of one menu item.
type ItemReviewDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID string    `gorm:"not null;index:idx_item_reviews_item,priority:1"`
	ItemID       uuid.UUID `gorm:"type:uuid;not null;index:idx_item_reviews_item,priority:2"`
	Rating       int       `gorm:"not null"`
	Status       string    `gorm:"not null;default:published"`
	CreatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (ItemReviewDTO) TableName() string {
	return "item_reviews"
}

// breakdownFromJSON restores the per-star counts. Missing keys count as zero;
// keys outside 1..5 are ignored.
func breakdownFromJSON(col datatypes.JSONType[map[string]int]) rating.Breakdown {
	var b rating.Breakdown
	for key, n := range col.Data() {
		stars, err := strconv.Atoi(key)
		if err != nil || rating.ValidateStars(stars) != nil {
			continue
		}
		b[stars-1] = n
	}
	return b
}

func toDomain(dto MenuItemDTO) (rating.Aggregate, error) {
	agg, err := rating.RestoreAggregate(dto.RatingCount, dto.RatingAvg, breakdownFromJSON(dto.RatingBreakdown))
	if err != nil {
		return rating.Aggregate{}, fmt.Errorf("%w: item %s: %w", rating.ErrCorruptAggregate, dto.ID, err)
	}
	return agg, nil
}
