package jobs

import (
	"rentout-backend/internal/config"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentOuts service.RentOutService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentOuts service.RentOutService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentOuts: rentOuts,
		config:   cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReconcileRentOutStatuses()
}
