// Package progress holds the pure policy functions for daily streak
// accounting. Persistence lives in the repositories; this package only
// decides what the next streak value is.
package progress

import (
	"math"
	"time"
)

// NextStreak computes the user's new streak after activity on today.
//
// The comparison is by calendar day, never elapsed hours, so sessions close
// to midnight cannot break a streak:
//   - never active before → 1
//   - same calendar day   → current (several sessions per day don't inflate it)
//   - yesterday           → current + 1
//   - any larger gap      → 1 (a reset starts a new one-day streak, not zero)
func NextStreak(lastActive *time.Time, current int, today time.Time) int {
	if lastActive == nil {
		return 1
	}

	last := midnight(*lastActive)
	cur := midnight(today.In(lastActive.Location()))

	// Rounding absorbs DST shifts (23h/25h days).
	days := int(math.Round(cur.Sub(last).Hours() / 24))
	switch {
	case days <= 0:
		// Same day; a last-active date ahead of today (clock skew) counts
		// as today rather than resetting the streak.
		return current
	case days == 1:
		return current + 1
	default:
		return 1
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
