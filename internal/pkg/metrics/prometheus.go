// Package metrics exposes the service counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics and implements commands.Telemetry.
type Metrics struct {
	Transitions        *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	ProcessingStops    *prometheus.CounterVec
	Drops              *prometheus.CounterVec
	HoldChanges        *prometheus.CounterVec
	Failures           *prometheus.CounterVec
	RecoveredBaggage   prometheus.Counter
	SnapshotCacheReads *prometheus.CounterVec
}

// NewMetrics registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_transitions_total",
			Help:      "Automated stage transitions committed to the ledger",
		}, []string{"from", "to"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Time taken to commit one pipeline stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"to"}),
		ProcessingStops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_stops_total",
			Help:      "Pipeline runs that ended, by outcome",
		}, []string{"outcome"}),
		Drops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drops_total",
			Help:      "Drop-off requests, by result",
		}, []string{"result"}),
		HoldChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hold_changes_total",
			Help:      "Holds placed and released",
		}, []string{"action"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of failed operations",
		}, []string{"operation"}),
		RecoveredBaggage: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovered_baggage_total",
			Help:      "Parked records resumed by the recovery job",
		}),
		SnapshotCacheReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_reads_total",
			Help:      "Snapshot cache lookups, by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) StageRecorded(from, to string, took time.Duration) {
	m.Transitions.WithLabelValues(from, to).Inc()
	m.StageDuration.WithLabelValues(to).Observe(took.Seconds())
}

func (m *Metrics) ProcessingStopped(outcome string) {
	m.ProcessingStops.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DropHandled(result string) {
	m.Drops.WithLabelValues(result).Inc()
}

func (m *Metrics) HoldChanged(action string) {
	m.HoldChanges.WithLabelValues(action).Inc()
}

func (m *Metrics) OperationFailed(operation string) {
	m.Failures.WithLabelValues(operation).Inc()
}

func (m *Metrics) BaggageRecovered() {
	m.RecoveredBaggage.Inc()
}

func (m *Metrics) SnapshotCacheRead(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SnapshotCacheReads.WithLabelValues(result).Inc()
}
