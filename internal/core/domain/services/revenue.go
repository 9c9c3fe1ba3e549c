package services

import (
	"backoffice/internal/core/domain/model/bill"
	"backoffice/internal/core/domain/model/timerange"
)

// SeriesPoint is the revenue of one bucket.
type SeriesPoint struct {
	Key          string
	RevenueCents int64
}

// SumRevenue totals PAID bills settled inside the range.
func SumRevenue(bills []bill.Bill, rng timerange.Range) int64 {
	var total int64
	for _, b := range bills {
		if counts(b, rng) {
			total += b.TotalCents()
		}
	}
	return total
}

// RevenueSeries groups SumRevenue by the range's bucket keys. The result has
// exactly one point per key, in key order, zero where nothing was settled.
// Bills whose bucket is not one of the range's keys are ignored.
func RevenueSeries(bills []bill.Bill, rng timerange.Range) []SeriesPoint {
	byKey := make(map[string]int64, len(rng.BucketKeys))
	for _, b := range bills {
		if counts(b, rng) {
			byKey[rng.BucketKeyOf(*b.PaidAt())] += b.TotalCents()
		}
	}

	series := make([]SeriesPoint, 0, len(rng.BucketKeys))
	for _, key := range rng.BucketKeys {
		series = append(series, SeriesPoint{Key: key, RevenueCents: byKey[key]})
	}
	return series
}

func counts(b bill.Bill, rng timerange.Range) bool {
	return b.IsRevenue() && rng.Contains(*b.PaidAt())
}
