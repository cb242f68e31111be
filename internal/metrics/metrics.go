// Package metrics exposes Prometheus instrumentation for the acquisition
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Check types used as metric label values.
const (
	CheckPerformance = "performance"
	CheckCertificate = "certificate"
	CheckDeepScan    = "deep_scan"
	CheckUptime      = "uptime"
)

// Metrics holds the acquisition Prometheus metrics.
type Metrics struct {
	ChecksTotal    *prometheus.CounterVec
	CheckDuration  *prometheus.HistogramVec
	ProviderErrors *prometheus.CounterVec
	DeepScanPolls  prometheus.Counter
}

// New registers acquisition metrics on the given registerer. Tests pass a
// fresh prometheus.NewRegistry to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitepulse_checks_total",
			Help: "Total checks run, by check type and outcome",
		}, []string{"check_type", "status"}),
		CheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitepulse_check_duration_seconds",
			Help:    "Wall-clock time of one check, provider calls included",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"check_type"}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitepulse_provider_errors_total",
			Help: "Provider failures, by check type and failure kind",
		}, []string{"check_type", "kind"}),
		DeepScanPolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "sitepulse_deep_scan_polls_total",
			Help: "Total deep-scan poll requests issued",
		}),
	}
}

// ObserveCheck records one finished check.
func (m *Metrics) ObserveCheck(checkType string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ChecksTotal.WithLabelValues(checkType, status).Inc()
	m.CheckDuration.WithLabelValues(checkType).Observe(time.Since(start).Seconds())
}

// ObserveProviderError records a classified provider failure.
func (m *Metrics) ObserveProviderError(checkType, kind string) {
	m.ProviderErrors.WithLabelValues(checkType, kind).Inc()
}
