package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekWindow_MidWeek(t *testing.T) {
	// Thursday 2026-08-27 15:04 UTC.
	at := time.Date(2026, 8, 27, 15, 4, 0, 0, time.UTC)
	start, end := WeekWindow(at)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekWindow_MondayMidnight(t *testing.T) {
	at := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	start, end := WeekWindow(at)

	assert.Equal(t, at, start)
	assert.Equal(t, at.AddDate(0, 0, 7), end)
}

func TestWeekWindow_Sunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	at := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	start, _ := WeekWindow(at)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
}

func TestWeekWindow_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	at := time.Date(2026, 8, 26, 3, 0, 0, 0, loc)
	start, end := WeekWindow(at)

	assert.Equal(t, loc, start.Location())
	assert.Equal(t, loc, end.Location())
}
