package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextSlot(t *testing.T) {
	loc := time.UTC

	t.Run("earlier same day fires today", func(t *testing.T) {
		// Monday 2026-08-24 10:00
		now := time.Date(2026, 8, 24, 10, 0, 0, 0, loc)
		next := NextSlot(now, time.Monday, 16)
		assert.Equal(t, time.Date(2026, 8, 24, 16, 0, 0, 0, loc), next)
	})

	t.Run("exactly at the slot rolls a full week", func(t *testing.T) {
		now := time.Date(2026, 8, 24, 16, 0, 0, 0, loc)
		next := NextSlot(now, time.Monday, 16)
		assert.Equal(t, time.Date(2026, 8, 31, 16, 0, 0, 0, loc), next)
	})

	t.Run("after the slot rolls a full week", func(t *testing.T) {
		now := time.Date(2026, 8, 24, 17, 30, 0, 0, loc)
		next := NextSlot(now, time.Monday, 16)
		assert.Equal(t, time.Date(2026, 8, 31, 16, 0, 0, 0, loc), next)
	})

	t.Run("other weekday finds the coming slot", func(t *testing.T) {
		// Thursday 2026-08-27
		now := time.Date(2026, 8, 27, 9, 0, 0, 0, loc)
		next := NextSlot(now, time.Monday, 16)
		assert.Equal(t, time.Date(2026, 8, 31, 16, 0, 0, 0, loc), next)
	})

	t.Run("slot is always in the future", func(t *testing.T) {
		now := time.Date(2026, 8, 24, 15, 59, 59, 0, loc)
		next := NextSlot(now, time.Monday, 16)
		assert.True(t, next.After(now))
	})
}
