// Package metrics provides Prometheus metrics for the clinical rules API:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - rule_evaluations_total: Counter with a tool label (soap, chads2,
//     interactions, analyze)
//   - rule_reloads_total: Counter with a status label
//   - rule_table_entries: Gauge with a table label
//
// All metrics are registered with the Prometheus default registry during
// package initialization and served at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RuleEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_evaluations_total",
			Help: "Total rule engine evaluations by tool",
		},
		[]string{"tool"},
	)

	RuleReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_reloads_total",
			Help: "Total rule table reload attempts by status",
		},
		[]string{"status"},
	)

	RuleTableEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rule_table_entries",
			Help: "Entries per loaded rule table",
		},
		[]string{"table"},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RuleEvaluationsTotal)
	prometheus.MustRegister(RuleReloadsTotal)
	prometheus.MustRegister(RuleTableEntries)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
