package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/pkg/logger"
)

// Refresher regenerates the held batch (pipeline.BatchHolder)
type Refresher interface {
	Refresh(ctx context.Context) (*contracts.Batch, error)
}

// RefreshJob regenerates the dashboard batch on a cron schedule
type RefreshJob struct {
	refresher Refresher
	schedule  string
	logger    *logger.Logger
}

// NewRefreshJob creates a new batch refresh job
func NewRefreshJob(refresher Refresher, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "batch_refresh"
}

// Schedule returns the cron schedule (seconds field first)
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes the refresh
func (j *RefreshJob) Run(ctx context.Context) error {
	batch, err := j.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh batch: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"rows":     batch.Len(),
	}).Debug("Scheduled refresh completed")

	return nil
}
