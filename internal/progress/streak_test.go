package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dilan/peyvin/internal/progress"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestNextStreak_FirstActivity(t *testing.T) {
	today := day(2026, time.September, 1, 12)
	assert.Equal(t, 1, progress.NextStreak(nil, 0, today))
}

func TestNextStreak_SameDay(t *testing.T) {
	last := day(2026, time.September, 1, 8)
	today := day(2026, time.September, 1, 23)
	assert.Equal(t, 5, progress.NextStreak(&last, 5, today), "repeat sessions on one day do not inflate the streak")
}

func TestNextStreak_ConsecutiveDay(t *testing.T) {
	last := day(2026, time.August, 31, 23)
	today := day(2026, time.September, 1, 0)
	assert.Equal(t, 6, progress.NextStreak(&last, 5, today), "calendar day comparison, not elapsed hours")
}

func TestNextStreak_GapResets(t *testing.T) {
	last := day(2026, time.August, 28, 12)
	today := day(2026, time.September, 1, 12)
	assert.Equal(t, 1, progress.NextStreak(&last, 9, today), "reset means a fresh one-day streak, not zero")
}

func TestNextStreak_TwoDayGap(t *testing.T) {
	last := day(2026, time.August, 30, 12)
	today := day(2026, time.September, 1, 12)
	assert.Equal(t, 1, progress.NextStreak(&last, 3, today))
}

func TestNextStreak_ClockSkew(t *testing.T) {
	// last_active ahead of today should behave like same-day, not a reset.
	last := day(2026, time.September, 2, 12)
	today := day(2026, time.September, 1, 12)
	assert.Equal(t, 4, progress.NextStreak(&last, 4, today))
}

func TestNextStreak_MonthBoundary(t *testing.T) {
	last := day(2026, time.August, 31, 12)
	today := day(2026, time.September, 1, 12)
	assert.Equal(t, 2, progress.NextStreak(&last, 1, today))
}

func TestNextStreak_YearBoundary(t *testing.T) {
	last := day(2025, time.December, 31, 12)
	today := day(2026, time.January, 1, 12)
	assert.Equal(t, 8, progress.NextStreak(&last, 7, today))
}
