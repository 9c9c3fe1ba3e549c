// Package rating owns the running review statistic stored on a menu item.
//
// An Aggregate is a value: every mutation returns a new Aggregate, and only the
// rating maintenance commands persist it. Two ways of producing one exist:
//
//   - Apply folds a single review event (created or removed) into the previous
//     value. It is cheap and lossy: the previous sum is rebuilt from the rounded
//     average.
//   - FromBreakdown re-derives everything from per-star review counts and is the
//     source of truth whenever it runs.
//
// For every Aggregate the star counts add up to Count.
package rating
