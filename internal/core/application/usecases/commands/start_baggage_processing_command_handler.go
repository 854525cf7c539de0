package commands

import (
	"context"
)

// StartBaggageProcessingCommandHandler loads a record and drives it through the pipeline.
// Held records stop immediately with OutcomePaused; records past loading stop with OutcomeComplete.
//
// Example:
//
//	cmd, _ := NewStartBaggageProcessingCommand("AB12345")
//	report, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrBaggageNotFound) {
//	    // unknown tracking number
//	}
type StartBaggageProcessingCommandHandler struct {
	uowFactory UoWFactory
	driver     *PipelineDriver
}

func NewStartBaggageProcessingCommandHandler(uowFactory UoWFactory, driver *PipelineDriver) StartBaggageProcessingCommandHandler {
	return StartBaggageProcessingCommandHandler{
		uowFactory: uowFactory,
		driver:     driver,
	}
}

func (h *StartBaggageProcessingCommandHandler) Handle(
	ctx context.Context,
	cmd StartBaggageProcessingCommand,
) (ProcessingReport, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessingReport{}, err
	}

	bag, err := loadBaggage(ctx, h.uowFactory.Create().BaggageRepository(), cmd.TrackingNumber())
	if err != nil {
		return ProcessingReport{}, err
	}

	return h.driver.Drive(ctx, bag, nil)
}
