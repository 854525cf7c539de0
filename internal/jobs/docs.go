// Package jobs provides scheduled background tasks for the baggage service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field specs with seconds).
//
// # Available Jobs
//
// PipelineRecoveryJob finds records that sit at DROPPED_OFF, SECURITY_CLEARED, SORTED
// or CBR_READY for longer than the configured idle time and drives them through the
// rest of the ground pipeline. Such records are left behind when the process stops
// between two stage commits.
//
// # Usage
//
//	recovery := jobs.NewPipelineRecoveryJob(recoverHandler, "0 * * * * *", 5*time.Minute, logger)
//	manager := jobs.NewJobManager(logger, recovery)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// A failing record does not stop a pass. Failures are logged and retried on the next tick.
package jobs
