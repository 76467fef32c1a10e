package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notifyhub/decision-notifier/internal/domain"
	"github.com/notifyhub/decision-notifier/internal/worker"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	RecordsProcessed *prometheus.CounterVec
	RecordsFailed    *prometheus.CounterVec
	RecordLatency    *prometheus.HistogramVec
	BatchSize        *prometheus.HistogramVec
}

// New registers all instruments with the given Prometheus registerer.
// A custom registry keeps tests isolated from the global one.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decision_records_processed_total",
			Help: "Records handed off to the next hop without error.",
		}, []string{"stage"}),

		RecordsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decision_records_failed_total",
			Help: "Records that failed or were skipped after a batch abort.",
		}, []string{"stage", "reason"}),

		RecordLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decision_record_processing_seconds",
			Help:    "Per-record latency from decode to outbound ack.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),

		BatchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decision_batch_size",
			Help:    "Number of records per inbound batch.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}, []string{"stage"}),
	}

	reg.MustRegister(
		m.RecordsProcessed,
		m.RecordsFailed,
		m.RecordLatency,
		m.BatchSize,
	)

	return m
}

// StageHooks returns the worker callbacks for one stage.
// Keeps the prometheus calls out of the worker and service packages.
func (m *Metrics) StageHooks(stage domain.Stage) worker.Hooks {
	s := string(stage)
	return worker.Hooks{
		OnSuccess: func(latency time.Duration) {
			m.RecordsProcessed.WithLabelValues(s).Inc()
			m.RecordLatency.WithLabelValues(s).Observe(latency.Seconds())
		},
		OnFailure: func(err error) {
			m.RecordsFailed.WithLabelValues(s, domain.Reason(err)).Inc()
		},
	}
}

// ObserveBatch records the size of an inbound batch.
func (m *Metrics) ObserveBatch(stage domain.Stage, n int) {
	m.BatchSize.WithLabelValues(string(stage)).Observe(float64(n))
}
