package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromMetricsRecordsAgainstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPromMetrics(reg)

	m.DirectiveDropped("agent-1", 3)
	m.ErrorCount("agent-1", 2)
	m.QueueDepth("agent-1", 5)
	m.CronTick("agent-1", "heartbeat")

	if got := testutil.ToFloat64(m.dropped.WithLabelValues("agent-1")); got != 3 {
		t.Fatalf("expected dropped=3, got %v", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("agent-1")); got != 2 {
		t.Fatalf("expected errors=2, got %v", got)
	}
	if got := testutil.ToFloat64(m.depth.WithLabelValues("agent-1")); got != 5 {
		t.Fatalf("expected depth=5, got %v", got)
	}
	if got := testutil.ToFloat64(m.cronTick.WithLabelValues("agent-1", "heartbeat")); got != 1 {
		t.Fatalf("expected cron tick=1, got %v", got)
	}
}
