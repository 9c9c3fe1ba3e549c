// Package timerange resolves calendar-aligned reporting windows in the fixed
// business timezone.
//
// A period selector plus an optional anchor date ("YYYY-MM-DD", read in the
// business timezone, defaulting to today) resolves to a half-open instant range
// [From, To) and the ordered bucket keys inside it:
//
//	today, yesterday     one calendar day, one date key
//	this_week, week      ISO week (Monday first), seven date keys
//	this_month, month    calendar month, one "YYYY-Www" key per ISO week touching it
//
// All boundaries are computed on calendar dates in the business timezone and
// only then converted to UTC instants. Resolution is pure: the clock is injected.
package timerange
