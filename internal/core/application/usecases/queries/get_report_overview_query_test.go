package queries_test

import (
	"testing"

	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetReportOverviewQuery(t *testing.T) {
	t.Run("should default to week", func(t *testing.T) {
		q, err := queries.NewGetReportOverviewQuery(restaurant, "", "")

		require.NoError(t, err)
		require.NoError(t, q.Validate())
		assert.Equal(t, timerange.Week, q.Period())
	})

	t.Run("should reject an unknown period", func(t *testing.T) {
		_, err := queries.NewGetReportOverviewQuery(restaurant, "fortnight", "")

		assert.ErrorIs(t, err, timerange.ErrInvalidPeriod)
	})

	t.Run("should require a restaurant scope", func(t *testing.T) {
		_, err := queries.NewGetReportOverviewQuery(kernel.RestaurantID{}, "week", "")

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should refuse a struct literal", func(t *testing.T) {
		assert.ErrorIs(t, queries.GetReportOverviewQuery{}.Validate(), queries.ErrGetReportOverviewQueryIsNotConstructed)
	})
}
