package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	ratingRecomputeJob *RatingRecomputeJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(ratingRecomputeJob *RatingRecomputeJob) *JobManager {
	return &JobManager{
		ratingRecomputeJob: ratingRecomputeJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.ratingRecomputeJob.Start(); err != nil {
		return fmt.Errorf("failed to start rating recompute job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.ratingRecomputeJob.Stop()
}
