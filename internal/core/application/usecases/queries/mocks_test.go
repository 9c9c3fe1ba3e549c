package queries_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalyticsReader struct{ mock.Mock }

func (m *MockAnalyticsReader) PaidBills(ctx context.Context, r kernel.RestaurantID, from, to time.Time) ([]bill.Bill, error) {
	args := m.Called(ctx, r, from, to)
	bills, _ := args.Get(0).([]bill.Bill)
	return bills, args.Error(1)
}

func (m *MockAnalyticsReader) ServedOrders(ctx context.Context, r kernel.RestaurantID, from, to time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, r, from, to)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockAnalyticsReader) ActiveOrders(ctx context.Context, r kernel.RestaurantID) ([]*order.Order, error) {
	args := m.Called(ctx, r)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockAnalyticsReader) RecentOrders(
	ctx context.Context,
	r kernel.RestaurantID,
	from, to time.Time,
	limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, r, from, to, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockAnalyticsReader) CountTables(ctx context.Context, r kernel.RestaurantID) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsReader) ListOrders(ctx context.Context, r kernel.RestaurantID, f ports.OrderFilter) (ports.OrderPage, error) {
	args := m.Called(ctx, r, f)
	return args.Get(0).(ports.OrderPage), args.Error(1)
}

// barrierReader holds every read until `expected` reads are in flight at once.
// Reads issued one after another never get there and fail after timeout.
type barrierReader struct {
	expected int
	timeout  time.Duration

	mu      sync.Mutex
	arrived int
	all     chan struct{}
}

func newBarrierReader(expected int) *barrierReader {
	return &barrierReader{expected: expected, timeout: 2 * time.Second, all: make(chan struct{})}
}

func (b *barrierReader) arrive(ctx context.Context) error {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.expected {
		close(b.all)
	}
	b.mu.Unlock()

	select {
	case <-b.all:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.timeout):
		return errors.New("reads were not issued concurrently")
	}
}

func (b *barrierReader) Arrived() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.arrived
}

func (b *barrierReader) PaidBills(ctx context.Context, _ kernel.RestaurantID, _, _ time.Time) ([]bill.Bill, error) {
	return nil, b.arrive(ctx)
}

func (b *barrierReader) ServedOrders(ctx context.Context, _ kernel.RestaurantID, _, _ time.Time) ([]*order.Order, error) {
	return nil, b.arrive(ctx)
}

func (b *barrierReader) ActiveOrders(ctx context.Context, _ kernel.RestaurantID) ([]*order.Order, error) {
	return nil, b.arrive(ctx)
}

func (b *barrierReader) RecentOrders(ctx context.Context, _ kernel.RestaurantID, _, _ time.Time, _ int) ([]*order.Order, error) {
	return nil, b.arrive(ctx)
}

func (b *barrierReader) CountTables(ctx context.Context, _ kernel.RestaurantID) (int64, error) {
	return 0, b.arrive(ctx)
}

func (b *barrierReader) ListOrders(context.Context, kernel.RestaurantID, ports.OrderFilter) (ports.OrderPage, error) {
	return ports.OrderPage{}, errors.New("not part of an overview")
}

type MockAnalyticsMetrics struct{ mock.Mock }

func (m *MockAnalyticsMetrics) ObserveOverview(view string, elapsed time.Duration, err error) {
	m.Called(view, elapsed, err)
}

func (m *MockAnalyticsMetrics) ObserveRatingUpdate(kind string, err error) {
	m.Called(kind, err)
}

var restaurant, _ = kernel.NewRestaurantID("r-1")

func businessTime(t *testing.T, y int, mo time.Month, d, h, mi int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(timerange.DefaultBusinessTimezone)
	require.NoError(t, err)
	return time.Date(y, mo, d, h, mi, 0, 0, loc)
}

// fixedResolver pins "now" to Wednesday 2024-03-06 12:00 in the business timezone.
func fixedResolver(t *testing.T) timerange.Resolver {
	t.Helper()
	now := businessTime(t, 2024, 3, 6, 12, 0)
	r, err := timerange.LoadResolver(timerange.DefaultBusinessTimezone, func() time.Time { return now })
	require.NoError(t, err)
	return r
}

func paid(t *testing.T, at time.Time, cents int64) bill.Bill {
	t.Helper()
	b, err := bill.RestoreBill(restaurant, bill.Paid, &at, cents)
	require.NoError(t, err)
	return b
}

func servedOrder(t *testing.T, at time.Time, total int64, lines ...order.LineSnapshot) *order.Order {
	t.Helper()
	return orderWithStatus(t, order.Served, at, total, lines...)
}

func orderWithStatus(t *testing.T, s order.Status, at time.Time, total int64, lines ...order.LineSnapshot) *order.Order {
	t.Helper()
	restored := make([]order.Line, 0, len(lines))
	for _, ls := range lines {
		if ls.ItemID == (kernel.UUID{}) {
			ls.ItemID = kernel.NewUUID()
		}
		l, err := order.NewLine(ls)
		require.NoError(t, err)
		restored = append(restored, l)
	}
	o, err := order.RestoreOrder(order.Snapshot{
		ID:          kernel.NewUUID(),
		Restaurant:  restaurant,
		TableID:     kernel.NewUUID(),
		TableNumber: "T1",
		Status:      s,
		SubmittedAt: at,
		Lines:       restored,
		TotalCents:  total,
	})
	require.NoError(t, err)
	return o
}

// atInstant matches a time.Time argument denoting the same instant as want.
func atInstant(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}
