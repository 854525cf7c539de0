package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RecoveryReport counts what one recovery pass did.
type RecoveryReport struct {
	Candidates int
	Resumed    int
	Failed     int
}

// RecoverIdleBaggageCommandHandler finds records left at an automated stage, for example
// after a crash between two pipeline commits, and drives each of them again.
// A failing record does not stop the pass; all failures are joined into the returned error.
type RecoverIdleBaggageCommandHandler struct {
	uowFactory UoWFactory
	driver     *PipelineDriver
	now        func() time.Time
	logger     *zap.Logger
	telemetry  Telemetry
}

func NewRecoverIdleBaggageCommandHandler(
	uowFactory UoWFactory,
	driver *PipelineDriver,
	logger *zap.Logger,
	telemetry Telemetry,
) RecoverIdleBaggageCommandHandler {
	return RecoverIdleBaggageCommandHandler{
		uowFactory: uowFactory,
		driver:     driver,
		now:        time.Now,
		logger:     logger.With(zap.String("component", "pipeline_recovery")),
		telemetry:  telemetryOrNop(telemetry),
	}
}

func (h *RecoverIdleBaggageCommandHandler) Handle(ctx context.Context, cmd RecoverIdleBaggageCommand) (RecoveryReport, error) {
	if err := cmd.Validate(); err != nil {
		return RecoveryReport{}, err
	}

	idleSince := h.now().Add(-cmd.IdleFor())
	numbers, err := h.uowFactory.Create().BaggageRepository().
		GetIdleTrackingNumbers(ctx, h.driver.Pipeline().ResumableStatuses(), idleSince)
	if err != nil {
		h.telemetry.OperationFailed("recover")
		return RecoveryReport{}, persistenceFailure("list idle baggage", err)
	}

	report := RecoveryReport{Candidates: len(numbers)}
	var failures error
	for _, number := range numbers {
		if ctx.Err() != nil {
			return report, errors.Join(failures, ctx.Err())
		}

		if err = h.resume(ctx, number); err != nil {
			report.Failed++
			failures = errors.Join(failures, err)
			h.logger.Warn("resume failed", zap.String("trackingNumber", number), zap.Error(err))
			continue
		}

		report.Resumed++
		h.telemetry.BaggageRecovered()
	}

	if report.Candidates > 0 {
		h.logger.Info("recovery pass finished",
			zap.Int("candidates", report.Candidates),
			zap.Int("resumed", report.Resumed),
			zap.Int("failed", report.Failed))
	}

	return report, failures
}

func (h *RecoverIdleBaggageCommandHandler) resume(ctx context.Context, trackingNumber string) error {
	bag, err := loadBaggage(ctx, h.uowFactory.Create().BaggageRepository(), trackingNumber)
	if err != nil {
		return err
	}

	_, err = h.driver.Drive(ctx, bag, nil)
	return err
}
