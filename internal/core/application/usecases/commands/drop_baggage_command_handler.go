package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"

	"go.uber.org/zap"
)

// Drop results reported to telemetry.
const (
	DropResultCreated        = "created"
	DropResultDuplicate      = "duplicate"
	DropResultFlightNotFound = "flight_not_found"
	DropResultRejected       = "rejected"
	DropResultFailed         = "failed"
)

// DropBaggageResult is what a drop-off produced.
// Created is false when the tracking number was already known; Baggage is then the
// existing record and no processing ran.
type DropBaggageResult struct {
	Baggage    baggage.Snapshot
	Created    bool
	Processing ProcessingReport
}

// DropBaggageCommandHandler creates a record and runs it through the ground pipeline.
//
// A known tracking number is not an error: the stored record is returned unchanged.
// Concurrent drops of the same number race on the store's unique constraint and the
// loser re-reads the winner's record.
// When the record was created but a pipeline stage could not be stored, Handle returns
// the result together with an error wrapping ErrProcessingInterrupted.
type DropBaggageCommandHandler struct {
	uowFactory UoWFactory
	driver     *PipelineDriver
	now        func() time.Time
	logger     *zap.Logger
	telemetry  Telemetry
}

func NewDropBaggageCommandHandler(
	uowFactory UoWFactory,
	driver *PipelineDriver,
	logger *zap.Logger,
	telemetry Telemetry,
) DropBaggageCommandHandler {
	return DropBaggageCommandHandler{
		uowFactory: uowFactory,
		driver:     driver,
		now:        time.Now,
		logger:     logger.With(zap.String("component", "drop_baggage")),
		telemetry:  telemetryOrNop(telemetry),
	}
}

func (h *DropBaggageCommandHandler) Handle(ctx context.Context, cmd DropBaggageCommand) (DropBaggageResult, error) {
	if err := cmd.Validate(); err != nil {
		return DropBaggageResult{}, err
	}

	bag, f, existing, err := h.create(ctx, cmd)
	if err != nil {
		h.report(err)
		return DropBaggageResult{}, err
	}
	if existing != nil {
		h.telemetry.DropHandled(DropResultDuplicate)
		h.logger.Info("duplicate drop-off ignored", zap.String("trackingNumber", cmd.TrackingNumber()))
		return DropBaggageResult{Baggage: existing.Snapshot()}, nil
	}

	h.telemetry.DropHandled(DropResultCreated)
	h.logger.Info("baggage dropped off",
		zap.String("trackingNumber", bag.TrackingNumber()),
		zap.Stringer("flight", f))

	report, err := h.driver.Drive(ctx, bag, f)
	result := DropBaggageResult{
		Baggage:    bag.Snapshot(),
		Created:    true,
		Processing: report,
	}
	if err != nil {
		result.Baggage = h.reload(ctx, cmd.TrackingNumber(), result.Baggage)
		return result, fmt.Errorf("%w: %w", ErrProcessingInterrupted, err)
	}

	return result, nil
}

// create returns either a new persisted record with its flight or the record that
// already holds the tracking number. The duplicate lookup comes first: weight and
// flight of a repeated drop are ignored.
func (h *DropBaggageCommandHandler) create(
	ctx context.Context,
	cmd DropBaggageCommand,
) (*baggage.Baggage, *flight.Flight, *baggage.Baggage, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, persistenceFailure("begin drop-off", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BaggageRepository()
	existing, err := repo.GetByTrackingNumber(ctx, cmd.TrackingNumber())
	switch {
	case err == nil:
		return nil, nil, existing, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, nil, nil, persistenceFailure("load baggage", err)
	}

	weight, err := cmd.NewRecord()
	if err != nil {
		return nil, nil, nil, err
	}

	f, err := loadFlight(ctx, uow.FlightRepository(), cmd.FlightID())
	if err != nil {
		return nil, nil, nil, err
	}

	bag, err := baggage.NewBaggage(kernel.NewUUID(), cmd.TrackingNumber(), weight, f.ID(), h.now())
	if err != nil {
		return nil, nil, nil, err
	}

	if err = repo.Add(ctx, bag); err != nil {
		return h.afterConflict(ctx, cmd.TrackingNumber(), "add baggage", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return h.afterConflict(ctx, cmd.TrackingNumber(), "commit drop-off", err)
	}

	return bag, f, nil, nil
}

// afterConflict resolves a lost creation race by reading the winner in a fresh unit of work.
func (h *DropBaggageCommandHandler) afterConflict(
	ctx context.Context,
	trackingNumber string,
	operation string,
	err error,
) (*baggage.Baggage, *flight.Flight, *baggage.Baggage, error) {
	if !errors.Is(err, errs.ErrObjectAlreadyExists) {
		return nil, nil, nil, persistenceFailure(operation, err)
	}

	existing, loadErr := loadBaggage(ctx, h.uowFactory.Create().BaggageRepository(), trackingNumber)
	if loadErr != nil {
		return nil, nil, nil, persistenceFailure(operation, errors.Join(err, loadErr))
	}

	return nil, nil, existing, nil
}

func (h *DropBaggageCommandHandler) reload(ctx context.Context, trackingNumber string, fallback baggage.Snapshot) baggage.Snapshot {
	bag, err := loadBaggage(ctx, h.uowFactory.Create().BaggageRepository(), trackingNumber)
	if err != nil {
		return fallback
	}
	return bag.Snapshot()
}

func (h *DropBaggageCommandHandler) report(err error) {
	if errors.Is(err, ErrFlightNotFound) {
		h.telemetry.DropHandled(DropResultFlightNotFound)
		return
	}
	if isValidation(err) {
		h.telemetry.DropHandled(DropResultRejected)
		return
	}
	h.telemetry.DropHandled(DropResultFailed)
	h.telemetry.OperationFailed("drop_baggage")
	h.logger.Error("drop-off failed", zap.Error(err))
}
