package services_test

import (
	"testing"
	"time"

	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/timerange"

	"github.com/stretchr/testify/require"
)

var restaurant, _ = kernel.NewRestaurantID("r-1")

func resolve(t *testing.T, p timerange.Period, anchor string) timerange.Range {
	t.Helper()
	r, err := timerange.LoadResolver(timerange.DefaultBusinessTimezone, nil)
	require.NoError(t, err)
	rng, err := r.Resolve(p, anchor)
	require.NoError(t, err)
	return rng
}

// local builds an instant from a wall clock time in the business timezone.
func local(t *testing.T, y int, m time.Month, d, h, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(timerange.DefaultBusinessTimezone)
	require.NoError(t, err)
	return time.Date(y, m, d, h, min, 0, 0, loc)
}

func paidBill(t *testing.T, at time.Time, cents int64) bill.Bill {
	t.Helper()
	b, err := bill.RestoreBill(restaurant, bill.Paid, &at, cents)
	require.NoError(t, err)
	return b
}

func billWithStatus(t *testing.T, s bill.Status, at time.Time, cents int64) bill.Bill {
	t.Helper()
	b, err := bill.RestoreBill(restaurant, s, &at, cents)
	require.NoError(t, err)
	return b
}

type orderFixture struct {
	id          kernel.UUID
	status      order.Status
	submittedAt time.Time
	tableID     kernel.UUID
	tableNumber string
	total       int64
	lines       []order.LineSnapshot
}

func newOrder(t *testing.T, s orderFixture) *order.Order {
	t.Helper()
	if s.id == (kernel.UUID{}) {
		s.id = kernel.NewUUID()
	}
	if s.status == order.Unknown {
		s.status = order.Served
	}
	lines := make([]order.Line, 0, len(s.lines))
	for _, ls := range s.lines {
		if ls.ItemID == (kernel.UUID{}) {
			ls.ItemID = kernel.NewUUID()
		}
		l, err := order.NewLine(ls)
		require.NoError(t, err)
		lines = append(lines, l)
	}
	o, err := order.RestoreOrder(order.Snapshot{
		ID:          s.id,
		Restaurant:  restaurant,
		TableID:     s.tableID,
		TableNumber: s.tableNumber,
		Status:      s.status,
		SubmittedAt: s.submittedAt,
		Lines:       lines,
		TotalCents:  s.total,
	})
	require.NoError(t, err)
	return o
}

func ptr[T any](v T) *T {
	return &v
}
