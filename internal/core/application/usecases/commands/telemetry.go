package commands

import "time"

// Telemetry receives counters and timings from the handlers.
// pkg/metrics.Metrics is the production implementation.
type Telemetry interface {
	StageRecorded(from, to string, took time.Duration)
	ProcessingStopped(outcome string)
	DropHandled(result string)
	HoldChanged(action string)
	OperationFailed(operation string)
	BaggageRecovered()
}

type nopTelemetry struct{}

func (nopTelemetry) StageRecorded(string, string, time.Duration) {}
func (nopTelemetry) ProcessingStopped(string)                    {}
func (nopTelemetry) DropHandled(string)                          {}
func (nopTelemetry) HoldChanged(string)                          {}
func (nopTelemetry) OperationFailed(string)                      {}
func (nopTelemetry) BaggageRecovered()                           {}

func telemetryOrNop(t Telemetry) Telemetry {
	if t == nil {
		return nopTelemetry{}
	}
	return t
}
