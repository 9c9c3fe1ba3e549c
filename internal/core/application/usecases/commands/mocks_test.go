package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

var restaurant, _ = kernel.NewRestaurantID("r-1")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockItemRatingRepository struct{ mock.Mock }

func (m *MockItemRatingRepository) Get(ctx context.Context, r kernel.RestaurantID, id kernel.UUID) (rating.Aggregate, error) {
	args := m.Called(ctx, r, id)
	agg, _ := args.Get(0).(rating.Aggregate)
	return agg, args.Error(1)
}

func (m *MockItemRatingRepository) Save(ctx context.Context, r kernel.RestaurantID, id kernel.UUID, agg rating.Aggregate) error {
	args := m.Called(ctx, r, id, agg)
	return args.Error(0)
}

func (m *MockItemRatingRepository) PublishedBreakdown(
	ctx context.Context,
	r kernel.RestaurantID,
	id kernel.UUID,
) (rating.Breakdown, error) {
	args := m.Called(ctx, r, id)
	b, _ := args.Get(0).(rating.Breakdown)
	return b, args.Error(1)
}

func (m *MockItemRatingRepository) ListRatedItems(ctx context.Context, r kernel.RestaurantID) ([]kernel.UUID, error) {
	args := m.Called(ctx, r)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

type MockRatingUoW struct{ mock.Mock }

func (m *MockRatingUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRatingUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRatingUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRatingUoW) ItemRatingRepository() ports.ItemRatingRepository {
	args := m.Called()
	return args.Get(0).(ports.ItemRatingRepository)
}

type MockRatingUoWFactory struct{ mock.Mock }

func (m *MockRatingUoWFactory) Create() commands.RatingUoW {
	args := m.Called()
	return args.Get(0).(commands.RatingUoW)
}

type MockAnalyticsMetrics struct{ mock.Mock }

func (m *MockAnalyticsMetrics) ObserveOverview(view string, elapsed time.Duration, err error) {
	m.Called(view, elapsed, err)
}

func (m *MockAnalyticsMetrics) ObserveRatingUpdate(kind string, err error) {
	m.Called(kind, err)
}

// memoryRatings is an in-memory rating store: stored aggregates per item plus
// the published reviews they derive from.
type memoryRatings struct {
	mu      sync.Mutex
	stored  map[kernel.UUID]rating.Aggregate
	reviews map[kernel.UUID][]int
}

func newMemoryRatings(items ...kernel.UUID) *memoryRatings {
	m := &memoryRatings{
		stored:  make(map[kernel.UUID]rating.Aggregate),
		reviews: make(map[kernel.UUID][]int),
	}
	for _, id := range items {
		m.stored[id] = rating.NewAggregate()
	}
	return m
}

func (m *memoryRatings) publish(id kernel.UUID, stars int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[id] = append(m.reviews[id], stars)
}

func (m *memoryRatings) unpublish(id kernel.UUID, stars int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.reviews[id]
	for i, s := range rs {
		if s == stars {
			m.reviews[id] = append(rs[:i], rs[i+1:]...)
			return
		}
	}
}

func (m *memoryRatings) Create() commands.RatingUoW { return memoryUoW{m} }

type memoryUoW struct{ m *memoryRatings }

func (u memoryUoW) Begin(context.Context) error { return nil }
func (u memoryUoW) Commit(context.Context) error { return nil }
func (u memoryUoW) Rollback(context.Context) error { return nil }
func (u memoryUoW) ItemRatingRepository() ports.ItemRatingRepository { return u.m }

func (m *memoryRatings) Get(_ context.Context, _ kernel.RestaurantID, id kernel.UUID) (rating.Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.stored[id]
	if !ok {
		return rating.Aggregate{}, errs.NewObjectNotFoundError("itemId", id)
	}
	return agg, nil
}

func (m *memoryRatings) Save(_ context.Context, _ kernel.RestaurantID, id kernel.UUID, agg rating.Aggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[id] = agg
	return nil
}

func (m *memoryRatings) PublishedBreakdown(_ context.Context, _ kernel.RestaurantID, id kernel.UUID) (rating.Breakdown, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b rating.Breakdown
	for _, s := range m.reviews[id] {
		b[s-1]++
	}
	return b, nil
}

func (m *memoryRatings) ListRatedItems(context.Context, kernel.RestaurantID) ([]kernel.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]kernel.UUID, 0, len(m.stored))
	for id := range m.stored {
		ids = append(ids, id)
	}
	return ids, nil
}
