package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// Job is a background task with a start and a graceful stop.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []Job
	started []Job
	logger  *zap.Logger
}

// NewJobManager creates a manager over jobs. Nil jobs are skipped so that optional
// jobs can be passed unconditionally.
func NewJobManager(logger *zap.Logger, jobs ...Job) *JobManager {
	active := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j != nil {
			active = append(active, j)
		}
	}

	return &JobManager{
		jobs:   active,
		logger: logger.With(zap.String("component", "job_manager")),
	}
}

// StartAll starts all scheduled jobs.
// If one fails to start, the ones already started are stopped and the error is returned.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
		jm.started = append(jm.started, j)
	}

	jm.logger.Info("jobs started", zap.Int("count", len(jm.started)))
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
