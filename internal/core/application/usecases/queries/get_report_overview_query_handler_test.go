package queries_test

import (
	"errors"
	"testing"

	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/timerange"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetReportOverviewQueryHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	from := businessTime(t, 2024, 3, 4, 0, 0)
	to := businessTime(t, 2024, 3, 11, 0, 0)
	pho := kernel.NewUUID()

	reader := new(MockAnalyticsReader)
	reader.On("PaidBills", mock.Anything, restaurant, atInstant(from), atInstant(to)).Return([]bill.Bill{
		paid(t, businessTime(t, 2024, 3, 6, 9, 0), 1599),
		paid(t, businessTime(t, 2024, 3, 6, 20, 0), 2401),
	}, nil).Twice()
	reader.On("ServedOrders", mock.Anything, restaurant, atInstant(from), atInstant(to)).Return([]*order.Order{
		servedOrder(t, businessTime(t, 2024, 3, 5, 12, 10), 1500,
			order.LineSnapshot{ItemID: pho, Name: "Pho", Status: order.LineCancelled, Quantity: 2, UnitPriceCents: 500},
			order.LineSnapshot{ItemID: pho, Name: "Pho", Status: order.LineReady, Quantity: 1, UnitPriceCents: 500},
		),
		servedOrder(t, businessTime(t, 2024, 3, 6, 12, 40), 2500),
	}, nil).Times(4)

	metrics := new(MockAnalyticsMetrics)
	metrics.On("ObserveOverview", "report", mock.Anything, nil).Return().Once()

	h := queries.NewGetReportOverviewQueryHandler(reader, fixedResolver(t), metrics)
	q, err := queries.NewGetReportOverviewQuery(restaurant, "week", "2024-03-06")
	require.NoError(t, err)

	overview, err := h.Handle(ctx, q)

	require.NoError(t, err)
	assert.True(t, overview.Range.From.Equal(from))
	assert.True(t, overview.Range.To.Equal(to))

	assert.Equal(t, int64(4000), overview.Totals.RevenueCents)
	assert.Equal(t, 2, overview.Totals.OrdersServed)
	assert.Equal(t, int64(2000), overview.Totals.AvgOrderValueCents)
	assert.Nil(t, overview.Totals.AvgPrepTimeSeconds)
	assert.Zero(t, overview.Totals.AvgPrepSampleSize)

	require.Len(t, overview.RevenueSeries, 7)
	assert.Equal(t, "2024-03-06", overview.RevenueSeries[2].Key)
	assert.Equal(t, int64(4000), overview.RevenueSeries[2].RevenueCents)
	assert.Zero(t, overview.RevenueSeries[0].RevenueCents)

	require.Len(t, overview.PeakHours, 24)
	assert.Equal(t, 2, overview.PeakHours[12].Orders)

	require.Len(t, overview.TopItems, 1)
	assert.Equal(t, 1, overview.TopItems[0].TotalQty)
	assert.Equal(t, int64(500), overview.TopItems[0].RevenueCents)

	reader.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestGetReportOverviewQueryHandler_Handle_SubQueryFailure(t *testing.T) {
	ctx := t.Context()
	readErr := errors.New("connection reset")

	reader := new(MockAnalyticsReader)
	reader.On("PaidBills", mock.Anything, restaurant, mock.Anything, mock.Anything).Return([]bill.Bill{}, nil)
	reader.On("ServedOrders", mock.Anything, restaurant, mock.Anything, mock.Anything).Return(nil, readErr)

	metrics := new(MockAnalyticsMetrics)
	metrics.On("ObserveOverview", "report", mock.Anything, mock.Anything).Return().Once()

	h := queries.NewGetReportOverviewQueryHandler(reader, fixedResolver(t), metrics)
	q, _ := queries.NewGetReportOverviewQuery(restaurant, "month", "")

	overview, err := h.Handle(ctx, q)

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrAggregationFailed)
	assert.ErrorIs(t, err, readErr)
	assert.Empty(t, overview.RevenueSeries)
	metrics.AssertExpectations(t)
}

func TestGetReportOverviewQueryHandler_Handle_InvalidAnchor(t *testing.T) {
	reader := new(MockAnalyticsReader)
	h := queries.NewGetReportOverviewQueryHandler(reader, fixedResolver(t), nil)
	q, err := queries.NewGetReportOverviewQuery(restaurant, "week", "2024-13-01")
	require.NoError(t, err)

	_, err = h.Handle(t.Context(), q)

	assert.ErrorIs(t, err, timerange.ErrInvalidPeriod)
	reader.AssertNotCalled(t, "PaidBills", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetReportOverviewQueryHandler_Handle_MonthBuckets(t *testing.T) {
	reader := new(MockAnalyticsReader)
	reader.On("PaidBills", mock.Anything, restaurant, mock.Anything, mock.Anything).Return([]bill.Bill{
		paid(t, businessTime(t, 2024, 3, 1, 8, 0), 300),
	}, nil)
	reader.On("ServedOrders", mock.Anything, restaurant, mock.Anything, mock.Anything).Return([]*order.Order{}, nil)

	h := queries.NewGetReportOverviewQueryHandler(reader, fixedResolver(t), nil)
	q, _ := queries.NewGetReportOverviewQuery(restaurant, "month", "")

	overview, err := h.Handle(t.Context(), q)

	require.NoError(t, err)
	require.Len(t, overview.RevenueSeries, 5)
	assert.Equal(t, "2024-W09", overview.RevenueSeries[0].Key)
	assert.Equal(t, int64(300), overview.RevenueSeries[0].RevenueCents)
	assert.Equal(t, int64(0), overview.Totals.AvgOrderValueCents)
}

func TestGetReportOverviewQueryHandler_Handle_NotConstructed(t *testing.T) {
	h := queries.NewGetReportOverviewQueryHandler(new(MockAnalyticsReader), fixedResolver(t), nil)

	_, err := h.Handle(t.Context(), queries.GetReportOverviewQuery{})

	assert.ErrorIs(t, err, queries.ErrGetReportOverviewQueryIsNotConstructed)
}

func TestGetReportOverviewQueryHandler_Handle_IssuesSubQueriesConcurrently(t *testing.T) {
	reader := newBarrierReader(6)
	h := queries.NewGetReportOverviewQueryHandler(reader, fixedResolver(t), nil)
	q, err := queries.NewGetReportOverviewQuery(restaurant, "month", "2024-03-06")
	require.NoError(t, err)

	overview, err := h.Handle(t.Context(), q)

	require.NoError(t, err)
	assert.Equal(t, 6, reader.Arrived())
	assert.Zero(t, overview.Totals.RevenueCents)
}
