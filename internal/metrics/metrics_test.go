package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncGenerateRequest("ok")
	m.IncGenerateRequest("ok")
	m.IncGenerateRequest("validation")
	m.AddGenerated("PERSON", 3)
	m.AddGenerated("PERSON", 0)
	m.ObserveGenerateLatency(20 * time.Millisecond)
	m.IncCancelled()
	m.IncReminder("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GenerateRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerateRequests.WithLabelValues("validation")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DeadlinesGenerated.WithLabelValues("PERSON")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecurrencesCancelled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersSent.WithLabelValues("sent")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerateLatency))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncGenerateRequest("ok")
		m.AddGenerated("PERSON", 1)
		m.ObserveGenerateLatency(time.Second)
		m.IncCancelled()
		m.IncReminder("sent")
	})
}
