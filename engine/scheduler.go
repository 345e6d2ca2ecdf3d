package engine

import (
	"context"
	"time"

	"github.com/JMitchell7425/Trading-Bot/logger"
)

// DefaultInterval is how often the scheduler wakes up.
const DefaultInterval = 30 * time.Second

// Scheduler drives the controller on a fixed interval, gated by the
// market calendar. One pass runs to completion before the next tick is
// considered; passes never overlap.
type Scheduler struct {
	interval time.Duration
	calendar Calendar
	ctrl     *Controller
	log      logger.Logger
}

// NewScheduler builds a scheduler. interval <= 0 falls back to
// DefaultInterval.
func NewScheduler(interval time.Duration, cal Calendar, ctrl *Controller, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, calendar: cal, ctrl: ctrl, log: log}
}

// Run loops until ctx is cancelled. The market-closed branch sleeps the
// same interval; there is no catch-up after a long pass, the next tick
// simply comes later.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler_started", logger.String("interval", s.interval.String()))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		now := time.Now()
		if s.calendar.IsOpen(now) {
			s.ctrl.RunPass(ctx, now)
		}
		select {
		case <-ctx.Done():
			s.log.Info("scheduler_stopped")
			return
		case <-ticker.C:
		}
	}
}
