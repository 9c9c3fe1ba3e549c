package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/adapters/out/metrics"
	"backoffice/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.AnalyticsMetrics = (*metrics.PrometheusMetrics)(nil)

func TestPrometheusMetrics_ObserveOverview(t *testing.T) {
	m := metrics.NewPrometheusMetrics()

	m.ObserveOverview("dashboard", 20*time.Millisecond, nil)
	m.ObserveOverview("dashboard", 30*time.Millisecond, errors.New("boom"))
	m.ObserveOverview("report", 10*time.Millisecond, nil)

	count, err := testutil.GatherAndCount(m.Registry(), "backoffice_overview_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per view")

	count, err = testutil.GatherAndCount(m.Registry(), "backoffice_overview_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheusMetrics_ObserveRatingUpdate(t *testing.T) {
	m := metrics.NewPrometheusMetrics()

	m.ObserveRatingUpdate("added", nil)
	m.ObserveRatingUpdate("added", nil)
	m.ObserveRatingUpdate("recompute", errors.New("boom"))

	count, err := testutil.GatherAndCount(m.Registry(), "backoffice_rating_updates_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "added/ok and recompute/error")
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := metrics.NewPrometheusMetrics()
	m.ObserveRatingUpdate("removed", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `backoffice_rating_updates_total{kind="removed",outcome="ok"} 1`)
}
