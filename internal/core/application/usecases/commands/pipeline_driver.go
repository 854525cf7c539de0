package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/services"
	"baggage/internal/pkg/errs"

	"go.uber.org/zap"
)

// ProcessingReport summarises one drive of the ground pipeline.
type ProcessingReport struct {
	// Steps is the number of stages committed during the drive.
	Steps int
	// Outcome is why the drive stopped. It is OutcomeUnknown when the drive failed.
	Outcome services.Outcome
}

// driveAttemptsPerStage allows for a hold and a release landing during one drive.
const driveAttemptsPerStage = 3

// PipelineDriver runs the ground pipeline for one record.
//
// Each stage runs in its own unit of work: the record is re-read, the stage is appended
// only if the record still sits at the stage's source status, and the result is committed.
// A hold placed between two stages therefore ends the drive with OutcomePaused. A
// concurrent writer that wins the same ledger sequence makes the driver reload and
// re-consult the pipeline. A failure leaves the record at the last committed stage and
// a later drive resumes from it. The loop is bounded by the size of the transition table.
//
// Example:
//
//	driver := NewPipelineDriver(uowFactory, logger, metrics)
//	report, err := driver.Drive(ctx, bag, f)
//	if err != nil {
//	    return err
//	}
//	log.Printf("%d stages, stopped: %s", report.Steps, report.Outcome)
type PipelineDriver struct {
	uowFactory UoWFactory
	pipeline   services.GroundPipeline
	now        func() time.Time
	logger     *zap.Logger
	telemetry  Telemetry
}

// NewPipelineDriver creates a driver over the standard ground pipeline.
// A nil telemetry disables metrics.
func NewPipelineDriver(uowFactory UoWFactory, logger *zap.Logger, telemetry Telemetry) *PipelineDriver {
	return &PipelineDriver{
		uowFactory: uowFactory,
		pipeline:   services.NewGroundPipeline(),
		now:        time.Now,
		logger:     logger.With(zap.String("component", "pipeline_driver")),
		telemetry:  telemetryOrNop(telemetry),
	}
}

// Pipeline returns the transition table the driver runs.
func (d *PipelineDriver) Pipeline() services.GroundPipeline {
	return d.pipeline
}

// Drive advances b until the pipeline reports a resting outcome.
// b is updated in place to the last committed state; f may be nil, in which case the
// flight is loaded when the first stage needs its number.
func (d *PipelineDriver) Drive(ctx context.Context, b *baggage.Baggage, f *flight.Flight) (ProcessingReport, error) {
	report := ProcessingReport{}
	logger := d.logger.With(zap.String("trackingNumber", b.TrackingNumber()))

	// re-consults after a concurrent change count against the bound too
	for attempts := 0; ; attempts++ {
		stage, outcome := d.pipeline.Next(b.Status())
		if outcome != services.OutcomeAdvance {
			report.Outcome = outcome
			d.logStop(ctx, logger, b.Status(), outcome)
			d.telemetry.ProcessingStopped(outcome.String())
			return report, nil
		}

		if attempts >= driveAttemptsPerStage*d.pipeline.MaxSteps() {
			d.telemetry.OperationFailed("drive")
			return report, fmt.Errorf("%w after %d steps at %s", ErrPipelineCycle, report.Steps, b.Status())
		}

		if f == nil {
			loaded, err := d.flightFor(ctx, b)
			if err != nil {
				d.telemetry.OperationFailed("drive")
				return report, err
			}
			f = loaded
		}

		started := time.Now()
		current, recorded, err := d.commitStage(ctx, b.TrackingNumber(), stage, f.Number())
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			logger.Debug("record changed concurrently, reloading", zap.Stringer("from", stage.From))
			current, err = loadBaggage(ctx, d.uowFactory.Create().BaggageRepository(), b.TrackingNumber())
		}
		if err != nil {
			d.telemetry.OperationFailed("drive")
			logger.Error("stage not recorded",
				zap.Stringer("from", stage.From),
				zap.Stringer("to", stage.To),
				zap.Error(err))
			return report, err
		}

		*b = *current
		if !recorded {
			continue
		}

		report.Steps++
		d.telemetry.StageRecorded(stage.From.String(), stage.To.String(), time.Since(started))
		logger.Debug("stage recorded",
			zap.Stringer("from", stage.From),
			zap.Stringer("to", stage.To),
			zap.Int("step", report.Steps))
	}
}

// commitStage re-reads the record and appends stage when the record is still at stage.From.
// It returns the record as committed, or as found when the stage no longer applies.
func (d *PipelineDriver) commitStage(
	ctx context.Context,
	trackingNumber string,
	stage services.Stage,
	flightNumber string,
) (*baggage.Baggage, bool, error) {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, persistenceFailure("begin stage", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BaggageRepository()
	current, err := loadBaggage(ctx, repo, trackingNumber)
	if err != nil {
		return nil, false, err
	}
	if current.Status() != stage.From {
		return current, false, nil
	}

	if _, err = current.Append(stage.To, stage.Details(flightNumber), d.now()); err != nil {
		return nil, false, err
	}

	if err = repo.Update(ctx, current); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, false, err
		}
		return nil, false, persistenceFailure("record stage", err)
	}

	if err = uow.Commit(ctx); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, false, err
		}
		return nil, false, persistenceFailure("commit stage", err)
	}

	return current, true, nil
}

func (d *PipelineDriver) flightFor(ctx context.Context, b *baggage.Baggage) (*flight.Flight, error) {
	uow := d.uowFactory.Create()
	return loadFlight(ctx, uow.FlightRepository(), b.FlightID())
}

func (d *PipelineDriver) logStop(_ context.Context, logger *zap.Logger, status baggage.Status, outcome services.Outcome) {
	switch outcome {
	case services.OutcomePaused:
		logger.Info("processing paused, baggage is held for inspection")
	case services.OutcomeComplete:
		logger.Info("past automated processing", zap.Stringer("status", status))
	case services.OutcomeNoStep:
		logger.Info("no automated step for status", zap.Stringer("status", status))
	default:
		logger.Warn("status unknown to the ground pipeline", zap.Stringer("status", status))
	}
}
