package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the consumption pipeline.
type Metrics struct {
	uploads   *prometheus.CounterVec
	rows      *prometheus.CounterVec
	duration  prometheus.Histogram
	cacheHits prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water",
			Subsystem: "pipeline",
			Name:      "uploads_total",
			Help:      "Uploaded workbooks by outcome.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water",
			Subsystem: "pipeline",
			Name:      "rows_total",
			Help:      "Data rows seen by the normalizer, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "water",
			Subsystem: "pipeline",
			Name:      "process_duration_seconds",
			Help:      "Time spent turning one upload into a clean table.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water",
			Subsystem: "pipeline",
			Name:      "cache_hits_total",
			Help:      "Uploads answered from the result cache.",
		}),
	}

	reg.MustRegister(m.uploads, m.rows, m.duration, m.cacheHits)
	return m
}

func (m *Metrics) observeJob(job *Job) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(string(job.Status)).Inc()
	m.rows.WithLabelValues("valid").Add(float64(job.Stats.ValidRows))
	m.rows.WithLabelValues("dropped").Add(float64(job.Stats.Dropped()))
	m.duration.Observe(job.Duration.Seconds())
}

func (m *Metrics) observeFailure(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(string(StatusFailed)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}
