package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reminder_assistant"

// Metrics exposes Prometheus collectors for the orchestrator and the scheduler.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	asks            *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
	remindersStored *prometheus.CounterVec
	ticks           prometheus.Counter
	skippedMinutes  prometheus.Counter
	deliveries      *prometheus.CounterVec
}

// MustNewMetrics registers the collectors with reg and panics on conflict.
// Pass a fresh registry in tests.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		asks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "asks_total",
			Help:      "Chat requests by outcome.",
		}, []string{"outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "llm_call_duration_seconds",
			Help:      "Latency of LLM chat calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 180},
		}, []string{"model", "status"}),
		remindersStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "created_total",
			Help:      "Reminders created by scope.",
		}, []string{"scope"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "ticks_total",
			Help:      "Scheduler ticks executed.",
		}),
		skippedMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "skipped_minutes_total",
			Help:      "Minutes the scheduler did not tick on.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "deliveries_total",
			Help:      "Digest deliveries by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.asks, m.llmDuration, m.remindersStored, m.ticks, m.skippedMinutes, m.deliveries)
	return m
}

// IncAsk counts a finished chat request. Outcome is "ok" or an error code.
func (m *Metrics) IncAsk(outcome string) {
	if m == nil {
		return
	}
	m.asks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLLMCall(model string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.llmDuration.WithLabelValues(model, status).Observe(d.Seconds())
}

func (m *Metrics) IncReminderCreated(scope string) {
	if m == nil {
		return
	}
	m.remindersStored.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncTick() {
	if m == nil {
		return
	}
	m.ticks.Inc()
}

func (m *Metrics) AddSkippedMinutes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedMinutes.Add(float64(n))
}

func (m *Metrics) IncDelivery(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.deliveries.WithLabelValues(status).Inc()
}
