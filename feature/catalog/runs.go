package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultRunsLimit is the page size of ListRuns when none is given.
	DefaultRunsLimit = 20
	// MaxRunsLimit caps the page size of ListRuns.
	MaxRunsLimit = 100
)

func (s *Syncer) startRun(ctx context.Context, opts RunOptions, start time.Time) (*SyncRun, error) {
	run := &SyncRun{
		RunID:     s.newID(),
		Trigger:   opts.Trigger,
		Source:    opts.Source.Name(),
		Status:    StatusRunning,
		StartedAt: start.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	return run, nil
}

func (s *Syncer) finishRun(ctx context.Context, run *SyncRun, res *Result) error {
	finished := s.now().UTC()
	run.Status = res.Status
	run.FinishedAt = &finished
	run.Fetched = res.Fetched
	run.Succeeded = res.Succeeded
	run.Failed = res.Failed
	run.Stale = res.Stale
	run.Writes = res.Writes
	run.Error = res.Error

	if len(res.Failures) > 0 {
		b, err := json.Marshal(res.Failures)
		if err != nil {
			return fmt.Errorf("failed to encode run failures: %w", err)
		}
		run.Failures = datatypes.JSON(b)
	}

	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to update sync run %s: %w", run.RunID, err)
	}
	return nil
}

// ClampRunsLimit applies the default and maximum page size.
func ClampRunsLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRunsLimit
	case limit > MaxRunsLimit:
		return MaxRunsLimit
	default:
		return limit
	}
}

// ListRuns returns the most recent sync runs, newest first.
func ListRuns(ctx context.Context, db *gorm.DB, limit int) ([]SyncRun, error) {
	runs := []SyncRun{}
	err := db.WithContext(ctx).
		Order("started_at DESC").
		Order("id DESC").
		Limit(ClampRunsLimit(limit)).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}
