// Package metrics records seal and open activity as Prometheus metrics on a
// private registry
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace is the Prometheus namespace for all metrics
	Namespace = "sealshare"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelResult    = "result"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpSeal   = "seal"
	OpOpen   = "open"
	OpIngest = "ingest"

	// Share verification results
	ResultValid    = "valid"
	ResultRejected = "rejected"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	shares     *prometheus.CounterVec
	split      prometheus.Counter
}

// New creates collectors registered on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "operations_total",
				Help:      "Total number of seal, open and ingest operations by status",
			},
			[]string{LabelOperation, LabelStatus},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of seal and open operations in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{LabelOperation},
		),
		shares: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "shares_verified_total",
				Help:      "Shares checked during open or ingest by result",
			},
			[]string{LabelResult},
		),
		split: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "shares_issued_total",
				Help:      "Shares produced by seal operations",
			},
		),
	}

	m.registry.MustRegister(m.operations, m.duration, m.shares, m.split)
	return m
}

// Registry returns the registry holding every collector
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordOperation counts one operation and observes its duration
func (m *Metrics) RecordOperation(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.operations.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordShare counts one verified or rejected share
func (m *Metrics) RecordShare(valid bool) {
	if m == nil {
		return
	}

	result := ResultValid
	if !valid {
		result = ResultRejected
	}
	m.shares.WithLabelValues(result).Inc()
}

// RecordIssued counts shares produced by a seal
func (m *Metrics) RecordIssued(n int) {
	if m == nil {
		return
	}
	m.split.Add(float64(n))
}

// WriteTextfile writes the current values in the text exposition format,
// for node_exporter's textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
