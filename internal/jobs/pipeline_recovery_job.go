package jobs

import (
	"context"
	"fmt"
	"time"

	"baggage/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type recoveryHandler interface {
	Handle(ctx context.Context, cmd commands.RecoverIdleBaggageCommand) (commands.RecoveryReport, error)
}

// PipelineRecoveryJob periodically resumes baggage parked at an automated stage.
// Runs never overlap: a tick that fires while the previous pass is running is skipped.
type PipelineRecoveryJob struct {
	handler  recoveryHandler
	schedule string
	idleFor  time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewPipelineRecoveryJob creates the job. schedule is a six-field cron spec with seconds.
func NewPipelineRecoveryJob(
	handler recoveryHandler,
	schedule string,
	idleFor time.Duration,
	logger *zap.Logger,
) *PipelineRecoveryJob {
	logger = logger.With(zap.String("component", "pipeline_recovery_job"))
	cronLog := cronLogger{logger: logger.Sugar()}

	return &PipelineRecoveryJob{
		handler:  handler,
		schedule: schedule,
		idleFor:  idleFor,
		timeout:  time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// Start registers the pass with the scheduler and starts it.
func (j *PipelineRecoveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { _, _ = j.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid recovery schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("pipeline recovery job started",
		zap.String("schedule", j.schedule),
		zap.Duration("idleFor", j.idleFor))
	return nil
}

// RunOnce performs one recovery pass.
func (j *PipelineRecoveryJob) RunOnce(ctx context.Context) (commands.RecoveryReport, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewRecoverIdleBaggageCommand(j.idleFor)
	if err != nil {
		j.logger.Error("pipeline recovery misconfigured", zap.Error(err))
		return commands.RecoveryReport{}, err
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("pipeline recovery pass failed",
			zap.Int("resumed", report.Resumed),
			zap.Int("failed", report.Failed),
			zap.Error(err))
	}
	return report, err
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *PipelineRecoveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("pipeline recovery job stopped")
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
