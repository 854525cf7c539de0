package commands

import (
	"context"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/baggage"

	"go.uber.org/zap"
)

// Hold actions reported to telemetry.
const (
	HoldActionHold    = "hold"
	HoldActionRelease = "release"
)

// SetBaggageHoldCommandHandler is the hold controller.
//
// Holding appends HELD_FOR_INSPECTION, which the pipeline treats as a pause.
// Releasing appends DROPPED_OFF and then drives the pipeline again from the first stage,
// so a released item repeats every automated stage. Holding a held item or releasing an
// item that is not held changes nothing.
type SetBaggageHoldCommandHandler struct {
	uowFactory UoWFactory
	driver     *PipelineDriver
	now        func() time.Time
	logger     *zap.Logger
	telemetry  Telemetry
}

func NewSetBaggageHoldCommandHandler(
	uowFactory UoWFactory,
	driver *PipelineDriver,
	logger *zap.Logger,
	telemetry Telemetry,
) SetBaggageHoldCommandHandler {
	return SetBaggageHoldCommandHandler{
		uowFactory: uowFactory,
		driver:     driver,
		now:        time.Now,
		logger:     logger.With(zap.String("component", "hold_controller")),
		telemetry:  telemetryOrNop(telemetry),
	}
}

func (h *SetBaggageHoldCommandHandler) Handle(ctx context.Context, cmd SetBaggageHoldCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	bag, changed, err := h.apply(ctx, cmd)
	if err != nil {
		h.telemetry.OperationFailed("set_hold")
		return err
	}
	if !changed {
		return nil
	}

	action := HoldActionRelease
	if cmd.Hold() {
		action = HoldActionHold
	}
	h.telemetry.HoldChanged(action)
	h.logger.Info("hold changed",
		zap.String("trackingNumber", bag.TrackingNumber()),
		zap.String("action", action))

	if cmd.Hold() {
		return nil
	}

	if _, err = h.driver.Drive(ctx, bag, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrProcessingInterrupted, err)
	}

	return nil
}

func (h *SetBaggageHoldCommandHandler) apply(ctx context.Context, cmd SetBaggageHoldCommand) (*baggage.Baggage, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, persistenceFailure("begin hold change", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BaggageRepository()
	bag, err := loadBaggage(ctx, repo, cmd.TrackingNumber())
	if err != nil {
		return nil, false, err
	}

	var changed bool
	if cmd.Hold() {
		changed, err = bag.Hold(h.now())
	} else {
		changed, err = bag.Release(h.now())
	}
	if err != nil || !changed {
		return bag, false, err
	}

	if err = repo.Update(ctx, bag); err != nil {
		return nil, false, persistenceFailure("record hold change", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, persistenceFailure("commit hold change", err)
	}

	return bag, true, nil
}
