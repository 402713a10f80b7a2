package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs a sync pass on a fixed interval.
type Scheduler struct {
	syncer   *Syncer
	source   Source
	interval time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a scheduler. A non-positive interval disables it.
func NewScheduler(syncer *Syncer, source Source, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{syncer: syncer, source: source, interval: interval, logger: logger}
}

// Enabled reports whether the scheduler has an interval to run on.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Run blocks until ctx is done, starting a pass on every tick. A tick that finds
// another run holding the lease is skipped.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Catalog sync scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Catalog sync scheduler stopped")
			return
		case <-ticker.C:
			_, err := s.syncer.Run(ctx, RunOptions{Trigger: TriggerSchedule, Source: s.source})
			switch {
			case err == nil:
			case errors.Is(err, ErrSyncInProgress):
				s.logger.Info("Scheduled sync skipped, another run holds the lease")
			case ctx.Err() != nil:
				return
			default:
				s.logger.Error("Scheduled sync failed", zap.Error(err))
			}
		}
	}
}
