package ports

import "time"

// AnalyticsMetrics receives operational measurements from the use cases.
type AnalyticsMetrics interface {
	// ObserveOverview records one overview computation for view
	// ("dashboard", "report"); err is the outcome.
	ObserveOverview(view string, elapsed time.Duration, err error)

	// ObserveRatingUpdate records one rating maintenance operation
	// ("added", "removed", "recompute").
	ObserveRatingUpdate(kind string, err error)
}
