// Package scheduler fires the weekly settlement on its cron slot.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Settler is the work the scheduler triggers.
type Settler interface {
	// SettlePending runs one settlement pass. Implementations guard against
	// concurrent runs themselves.
	SettlePending(ctx context.Context) error
}

// Scheduler fires the settler once per weekly slot. It coalesces missed
// slots: waking up late runs at most one catch-up pass.
type Scheduler struct {
	settler Settler
	logger  *slog.Logger
	weekday time.Weekday
	hour    int
}

// New creates a scheduler firing each week on the given weekday and hour
// (local time).
func New(settler Settler, logger *slog.Logger, weekday time.Weekday, hour int) *Scheduler {
	return &Scheduler{
		settler: settler,
		logger:  logger,
		weekday: weekday,
		hour:    hour,
	}
}

// NextSlot returns the first scheduled firing strictly after t.
func NextSlot(t time.Time, weekday time.Weekday, hour int) time.Time {
	slot := time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	daysAhead := (int(weekday) - int(t.Weekday()) + 7) % 7
	slot = slot.AddDate(0, 0, daysAhead)
	if !slot.After(t) {
		slot = slot.AddDate(0, 0, 7)
	}
	return slot
}

// Run blocks until ctx is cancelled, firing the settler at each slot. An
// in-flight run finishes before Run returns; no new run starts after
// cancellation.
func (s *Scheduler) Run(ctx context.Context) {
	next := NextSlot(time.Now(), s.weekday, s.hour)
	s.logger.Info("scheduler started", "weekday", s.weekday.String(), "hour", s.hour, "next_run", next)

	for {
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return
		case <-timer.C:
		}

		start := time.Now()
		if err := s.settler.SettlePending(ctx); err != nil {
			s.logger.Error("settlement run failed", "error", err, "elapsed", time.Since(start))
		} else {
			s.logger.Info("settlement run finished", "elapsed", time.Since(start))
		}

		// Computing from now (not from the previous slot) coalesces any
		// slots missed while the settler ran or the process slept.
		next = NextSlot(time.Now(), s.weekday, s.hour)
		s.logger.Info("next settlement scheduled", "next_run", next)
	}
}
