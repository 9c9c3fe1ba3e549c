// Package services holds the store-agnostic aggregation math behind the
// dashboard and report statistics.
//
// Every function takes already loaded bills or orders plus the resolved
// timerange.Range and re-applies the statistic's own filter (status, time window,
// cancelled lines), so results do not depend on how carefully a store pre-filtered
// its rows. Series and histograms are always zero-filled.
//
// The package includes:
//   - Revenue: SumRevenue, RevenueSeries
//   - Served orders: ServedTotals, PrepTime, PeakHours, RankTopItems
//   - Live floor state: ServingTables, SummarizeRecentOrders
package services
