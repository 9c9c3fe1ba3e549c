package ratingrepo_test

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/adapters/out/postgres/ratingrepo"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ItemRatingRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *ratingrepo.GormItemRatingRepository
	restaurant kernel.RestaurantID
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&ratingrepo.MenuItemDTO{}, &ratingrepo.ItemReviewDTO{}))

	suite.restaurant, err = kernel.NewRestaurantID("r-1")
	suite.Require().NoError(err)
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE menu_items, item_reviews").Error)
	suite.repository = ratingrepo.NewGormItemRatingRepository(suite.db)
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestGet_NewItemHasEmptyRating() {
	itemID := suite.insertItem(suite.restaurant)

	agg, err := suite.repository.Get(context.Background(), suite.restaurant, itemID)

	suite.Require().NoError(err)
	suite.Equal(0, agg.Count())
	suite.InDelta(0, agg.Average(), 1e-9)
	suite.Equal(rating.Breakdown{}, agg.Breakdown())
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()
	other, _ := kernel.NewRestaurantID("r-2")
	foreign := suite.insertItem(other)
	deleted := suite.insertItem(suite.restaurant)
	suite.Require().NoError(suite.db.Delete(&ratingrepo.MenuItemDTO{}, "id = ?", deleted.Bytes()).Error)

	testCases := []struct {
		name   string
		itemID kernel.UUID
	}{
		{"unknown item", kernel.NewUUID()},
		{"item of another restaurant", foreign},
		{"soft-deleted item", deleted},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.repository.Get(ctx, suite.restaurant, tc.itemID)
			suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
		})
	}
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestGet_InconsistentRowIsCorrupt() {
	itemID := suite.insertItem(suite.restaurant)
	suite.Require().NoError(suite.db.Model(&ratingrepo.MenuItemDTO{}).
		Where("id = ?", itemID.Bytes()).
		Updates(map[string]any{"rating_count": 2, "rating_avg": 4}).Error)

	_, err := suite.repository.Get(context.Background(), suite.restaurant, itemID)

	suite.Require().ErrorIs(err, rating.ErrCorruptAggregate)
	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestSave_RoundTrip() {
	ctx := context.Background()
	itemID := suite.insertItem(suite.restaurant)
	agg, err := rating.FromBreakdown(rating.Breakdown{0, 1, 0, 0, 2})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Save(ctx, suite.restaurant, itemID, agg))

	stored, err := suite.repository.Get(ctx, suite.restaurant, itemID)
	suite.Require().NoError(err)
	suite.True(stored.Equal(agg), "got %s, want %s", stored, agg)
	suite.InDelta(4.00, stored.Average(), 1e-9)

	var dto ratingrepo.MenuItemDTO
	suite.Require().NoError(suite.db.First(&dto, "id = ?", itemID.Bytes()).Error)
	suite.Equal("Pho Bo", dto.Name, "catalog fields must be left untouched")
	suite.Equal(map[string]int{"1": 0, "2": 1, "3": 0, "4": 0, "5": 2}, dto.RatingBreakdown.Data())
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestSave_MissingItem() {
	err := suite.repository.Save(context.Background(), suite.restaurant, kernel.NewUUID(), rating.NewAggregate())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestPublishedBreakdown() {
	ctx := context.Background()
	itemID := suite.insertItem(suite.restaurant)
	otherItem := suite.insertItem(suite.restaurant)

	suite.insertReview(itemID, 5, ratingrepo.ReviewPublished)
	suite.insertReview(itemID, 5, ratingrepo.ReviewPublished)
	suite.insertReview(itemID, 3, ratingrepo.ReviewPublished)
	suite.insertReview(itemID, 1, "removed")
	suite.insertReview(otherItem, 2, ratingrepo.ReviewPublished)
	deleted := suite.insertReview(itemID, 4, ratingrepo.ReviewPublished)
	suite.Require().NoError(suite.db.Delete(&ratingrepo.ItemReviewDTO{}, "id = ?", deleted.Bytes()).Error)

	b, err := suite.repository.PublishedBreakdown(ctx, suite.restaurant, itemID)

	suite.Require().NoError(err)
	suite.Equal(rating.Breakdown{0, 0, 1, 0, 2}, b)
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) TestListRatedItems() {
	ctx := context.Background()
	reviewed := suite.insertItem(suite.restaurant)
	suite.insertReview(reviewed, 4, ratingrepo.ReviewPublished)

	stale := suite.insertItem(suite.restaurant)
	agg, _ := rating.FromBreakdown(rating.Breakdown{0, 0, 0, 1, 0})
	suite.Require().NoError(suite.repository.Save(ctx, suite.restaurant, stale, agg))

	suite.insertItem(suite.restaurant) // never reviewed

	hidden := suite.insertItem(suite.restaurant)
	suite.insertReview(hidden, 2, "hidden")
	suite.insertReview(hidden, 1, "rejected")

	misfiled := suite.insertItem(suite.restaurant)
	suite.Require().NoError(suite.db.Create(&ratingrepo.ItemReviewDTO{
		ID:           kernel.NewUUID().Bytes(),
		RestaurantID: "r-2",
		ItemID:       misfiled.Bytes(),
		Rating:       5,
		Status:       ratingrepo.ReviewPublished,
	}).Error)

	ids, err := suite.repository.ListRatedItems(ctx, suite.restaurant)

	suite.Require().NoError(err)
	suite.ElementsMatch([]kernel.UUID{reviewed, stale}, ids)
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) insertItem(restaurant kernel.RestaurantID) kernel.UUID {
	id := kernel.NewUUID()
	suite.Require().NoError(suite.db.Create(&ratingrepo.MenuItemDTO{
		ID:           id.Bytes(),
		RestaurantID: restaurant.String(),
		Name:         "Pho Bo",
	}).Error)
	return id
}

func (suite *ItemRatingRepositoryIntegrationTestSuite) insertReview(itemID kernel.UUID, stars int, status string) kernel.UUID {
	id := kernel.NewUUID()
	suite.Require().NoError(suite.db.Create(&ratingrepo.ItemReviewDTO{
		ID:           id.Bytes(),
		RestaurantID: suite.restaurant.String(),
		ItemID:       itemID.Bytes(),
		Rating:       stars,
		Status:       status,
	}).Error)
	return id
}

func TestItemRatingRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(ItemRatingRepositoryIntegrationTestSuite))
}
