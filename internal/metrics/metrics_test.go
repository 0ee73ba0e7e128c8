package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.IncAsk("ok")
	m.IncAsk("ok")
	m.IncAsk("in_work")
	m.ObserveLLMCall("deepseek-chat", true, 2*time.Second)
	m.IncTick()
	m.AddSkippedMinutes(3)
	m.AddSkippedMinutes(0)
	m.IncDelivery(false)

	if got := testutil.ToFloat64(m.asks.WithLabelValues("ok")); got != 2 {
		t.Errorf("asks{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.skippedMinutes); got != 3 {
		t.Errorf("skipped = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.deliveries.WithLabelValues("failed")); got != 1 {
		t.Errorf("deliveries{failed} = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered families")
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncAsk("ok")
	m.ObserveLLMCall("x", false, time.Second)
	m.IncReminderCreated("private")
	m.IncTick()
	m.AddSkippedMinutes(1)
	m.IncDelivery(true)
}
