package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("baggage", prometheus.NewRegistry())

	m.StageRecorded("DROPPED_OFF", "SECURITY_CLEARED", 20*time.Millisecond)
	m.StageRecorded("DROPPED_OFF", "SECURITY_CLEARED", 10*time.Millisecond)
	m.ProcessingStopped("completed")
	m.DropHandled("created")
	m.DropHandled("duplicate")
	m.DropHandled("duplicate")
	m.HoldChanged("hold")
	m.OperationFailed("drive")
	m.BaggageRecovered()
	m.SnapshotCacheRead(true)
	m.SnapshotCacheRead(false)
	m.SnapshotCacheRead(false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Transitions.WithLabelValues("DROPPED_OFF", "SECURITY_CLEARED")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProcessingStops.WithLabelValues("completed")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Drops.WithLabelValues("duplicate")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HoldChanges.WithLabelValues("hold")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Failures.WithLabelValues("drive")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RecoveredBaggage), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SnapshotCacheReads.WithLabelValues("miss")), 0)
}

func TestMetrics_HistogramExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("baggage", reg)
	m.StageRecorded("SORTED", "CBR_READY", 5*time.Millisecond)

	expected := `
# HELP baggage_pipeline_transitions_total Automated stage transitions committed to the ledger
# TYPE baggage_pipeline_transitions_total counter
baggage_pipeline_transitions_total{from="SORTED",to="CBR_READY"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "baggage_pipeline_transitions_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "baggage_pipeline_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("baggage", reg)

	assert.Panics(t, func() { NewMetrics("baggage", reg) })
}
