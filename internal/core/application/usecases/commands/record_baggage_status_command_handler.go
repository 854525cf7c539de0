package commands

import (
	"context"
	"time"

	"baggage/internal/core/domain/model/baggage"

	"go.uber.org/zap"
)

// RecordBaggageStatusCommandHandler appends a manually chosen status to the ledger.
// Any status may follow any other. The pipeline is not run afterwards.
type RecordBaggageStatusCommandHandler struct {
	uowFactory BaggageUoWFactory
	now        func() time.Time
	logger     *zap.Logger
	telemetry  Telemetry
}

func NewRecordBaggageStatusCommandHandler(
	uowFactory BaggageUoWFactory,
	logger *zap.Logger,
	telemetry Telemetry,
) RecordBaggageStatusCommandHandler {
	return RecordBaggageStatusCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
		logger:     logger.With(zap.String("component", "status_override")),
		telemetry:  telemetryOrNop(telemetry),
	}
}

// Handle returns the record as stored after the override.
func (h *RecordBaggageStatusCommandHandler) Handle(
	ctx context.Context,
	cmd RecordBaggageStatusCommand,
) (baggage.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return baggage.Snapshot{}, err
	}

	snapshot, err := h.record(ctx, cmd)
	if err != nil {
		h.telemetry.OperationFailed("record_status")
		return baggage.Snapshot{}, err
	}

	return snapshot, nil
}

func (h *RecordBaggageStatusCommandHandler) record(
	ctx context.Context,
	cmd RecordBaggageStatusCommand,
) (baggage.Snapshot, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return baggage.Snapshot{}, persistenceFailure("begin status override", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BaggageRepository()
	bag, err := loadBaggage(ctx, repo, cmd.TrackingNumber())
	if err != nil {
		return baggage.Snapshot{}, err
	}

	from := bag.Status()
	appended, err := bag.Append(cmd.Status(), cmd.Details(), h.now())
	if err != nil {
		return baggage.Snapshot{}, err
	}
	if !appended {
		return bag.Snapshot(), nil
	}

	if err = repo.Update(ctx, bag); err != nil {
		return baggage.Snapshot{}, persistenceFailure("record status", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return baggage.Snapshot{}, persistenceFailure("commit status override", err)
	}

	h.logger.Info("status overridden",
		zap.String("trackingNumber", bag.TrackingNumber()),
		zap.Stringer("from", from),
		zap.Stringer("to", bag.Status()))

	return bag.Snapshot(), nil
}
