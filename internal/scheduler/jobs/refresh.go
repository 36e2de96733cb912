package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/comps/internal/dataset"
	"github.com/wonny/comps/pkg/logger"
)

// DatasetRefreshJob rebuilds the population tables nightly so new box
// scores and leaderboard updates flow into the comps.
type DatasetRefreshJob struct {
	refresher *dataset.Refresher
	logger    *logger.Logger
}

// NewDatasetRefreshJob creates the nightly refresh job
func NewDatasetRefreshJob(refresher *dataset.Refresher, log *logger.Logger) *DatasetRefreshJob {
	return &DatasetRefreshJob{
		refresher: refresher,
		logger:    log,
	}
}

// Name returns the job name
func (j *DatasetRefreshJob) Name() string {
	return "dataset_refresh"
}

// Schedule runs daily at 6 AM, after the previous night's games settle
func (j *DatasetRefreshJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run executes the refresh
func (j *DatasetRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled dataset refresh")

	if err := j.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("dataset refresh: %w", err)
	}

	j.logger.Info("Scheduled dataset refresh completed")
	return nil
}
