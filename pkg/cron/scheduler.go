// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger drops cached entries older than a cutoff and reports how many went.
type Purger interface {
	Purge(olderThan time.Time) int
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	purger   Purger
	schedule string
	ttl      time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that purges entries older than ttl on
// the given cron schedule (standard 5-field format or "@every").
func NewScheduler(purger Purger, schedule string, ttl time.Duration, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		purger:   purger,
		schedule: schedule,
		ttl:      ttl,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.purgeExpired); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.String("schedule", s.schedule),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow runs the purge synchronously (for tests and admin use).
func (s *Scheduler) RunNow() int {
	return s.purge(time.Now())
}

func (s *Scheduler) purgeExpired() {
	s.purge(time.Now())
}

func (s *Scheduler) purge(now time.Time) int {
	removed := s.purger.Purge(now.Add(-s.ttl))
	s.logger.Info("result cache purge completed",
		slog.Int("entries_removed", removed),
		slog.Duration("ttl", s.ttl),
	)
	return removed
}
