package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	storedSessions  prometheus.Gauge
	persistDuration prometheus.Histogram
	lookupDuration  prometheus.Histogram

	delegatedOpsTotal    *prometheus.CounterVec
	delegatedOpsDuration *prometheus.HistogramVec

	authFailuresTotal      prometheus.Counter
	retentionDeletedTotal  prometheus.Counter
	retentionSweepDuration prometheus.Histogram
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			storedSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "stored_sessions",
					Help: "Current number of persisted session records.",
				},
			),
			persistDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "session_persist_duration_seconds",
					Help:    "Session state persist duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			lookupDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "session_lookup_duration_seconds",
					Help:    "Session lookup duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			delegatedOpsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "delegated_ops_total",
					Help: "Total delegated terminal operations by op and status.",
				},
				[]string{"op", "status"},
			),
			delegatedOpsDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "delegated_op_duration_seconds",
					Help:    "Delegated terminal operation duration in seconds by op.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"op"},
			),
			authFailuresTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "session_auth_failures_total",
					Help: "Total session lookups rejected for owner mismatch.",
				},
			),
			retentionDeletedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "retention_deleted_total",
					Help: "Total session records removed by retention cleanup.",
				},
			),
			retentionSweepDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "retention_sweep_duration_seconds",
					Help:    "Retention sweep duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
		}

		prometheus.MustRegister(
			m.storedSessions,
			m.persistDuration,
			m.lookupDuration,
			m.delegatedOpsTotal,
			m.delegatedOpsDuration,
			m.authFailuresTotal,
			m.retentionDeletedTotal,
			m.retentionSweepDuration,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func SetStoredSessions(count int) {
	m := getMetrics()
	m.storedSessions.Set(float64(count))
}

func RecordSessionPersist(duration time.Duration) {
	m := getMetrics()
	m.persistDuration.Observe(duration.Seconds())
}

func RecordSessionLookup(duration time.Duration) {
	m := getMetrics()
	m.lookupDuration.Observe(duration.Seconds())
}

func RecordDelegatedOp(op string, duration time.Duration, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.delegatedOpsTotal.WithLabelValues(op, status).Inc()
	m.delegatedOpsDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func RecordAuthFailure() {
	getMetrics().authFailuresTotal.Inc()
}

func RecordRetentionSweep(deleted int, duration time.Duration) {
	m := getMetrics()
	m.retentionDeletedTotal.Add(float64(deleted))
	m.retentionSweepDuration.Observe(duration.Seconds())
}
