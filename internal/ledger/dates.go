// Package ledger is the pure computation core of the credit system:
// schedule generation, payment allocation, the fine sub-ledger, the
// lifecycle classifier and the renewal calculator. It performs no I/O
// and never reads the wall clock; callers pass "today" in.
package ledger

import "time"

// DateOnly normalizes a timestamp to local noon of its calendar day.
// Due dates are date-only values; pinning them to noon keeps a DST
// transition from shifting them across a day boundary.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// startOfDay truncates a timestamp to 00:00 of its calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BeforeDay reports whether a falls on a calendar day strictly before b.
func BeforeDay(a, b time.Time) bool {
	return startOfDay(a).Before(startOfDay(b))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
