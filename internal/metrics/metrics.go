package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for deadline generation and reminders.
type Metrics struct {
	// Generation requests by outcome: ok, validation, not_found, no_targets, error
	GenerateRequests *prometheus.CounterVec

	// Deadlines materialized by target type
	DeadlinesGenerated *prometheus.CounterVec

	GenerateLatency prometheus.Histogram

	RecurrencesCancelled prometheus.Counter

	// Reminder digests by delivery result
	RemindersSent *prometheus.CounterVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GenerateRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_generate_requests_total",
			Help: "Deadline generation requests by outcome",
		}, []string{"outcome"}),

		DeadlinesGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_deadlines_generated_total",
			Help: "Deadlines materialized by target type",
		}, []string{"target_type"}),

		GenerateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "compliance_generate_duration_seconds",
			Help:    "Duration of a generation call including persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		RecurrencesCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "compliance_recurrences_cancelled_total",
			Help: "Recurrence groups cancelled",
		}),

		RemindersSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_reminder_digests_total",
			Help: "Reminder digests by result",
		}, []string{"result"}),
	}
}

// IncGenerateRequest records a generation request outcome.
func (m *Metrics) IncGenerateRequest(outcome string) {
	if m != nil {
		m.GenerateRequests.WithLabelValues(outcome).Inc()
	}
}

// AddGenerated records materialized deadlines for one target type.
func (m *Metrics) AddGenerated(targetType string, n int) {
	if m != nil && n > 0 {
		m.DeadlinesGenerated.WithLabelValues(targetType).Add(float64(n))
	}
}

// ObserveGenerateLatency records the duration of a generation call.
func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}

// IncCancelled records a cancelled recurrence group.
func (m *Metrics) IncCancelled() {
	if m != nil {
		m.RecurrencesCancelled.Inc()
	}
}

// IncReminder records a reminder digest result.
func (m *Metrics) IncReminder(result string) {
	if m != nil {
		m.RemindersSent.WithLabelValues(result).Inc()
	}
}
