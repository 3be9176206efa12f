// Package metrics wires the gateway's ambient Prometheus metrics
// (SPEC_FULL §4.N): request counts and latency per backend operation, and
// backend restart counts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BackendCalls counts every Proxy operation by backend, operation and
	// outcome (success/error/timeout).
	BackendCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mcpgw",
		Name:      "backend_calls_total",
		Help:      "Total backend operations routed through the proxy.",
	}, []string{"server", "op", "outcome"})

	// BackendCallDuration observes latency per backend operation.
	BackendCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mcpgw",
		Name:      "backend_call_duration_seconds",
		Help:      "Latency of backend operations routed through the proxy.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"server", "op"})

	// BackendRestarts counts Supervisor-driven restarts per backend.
	BackendRestarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mcpgw",
		Name:      "backend_restarts_total",
		Help:      "Total restart attempts scheduled by the supervisor.",
	}, []string{"server"})
)

func init() {
	prometheus.MustRegister(BackendCalls, BackendCallDuration, BackendRestarts)
}

// ObserveCall records one backend operation's outcome and duration.
func ObserveCall(server, op, outcome string, duration time.Duration) {
	BackendCalls.WithLabelValues(server, op, outcome).Inc()
	BackendCallDuration.WithLabelValues(server, op).Observe(duration.Seconds())
}

// ObserveRestart records one supervisor-scheduled restart attempt.
func ObserveRestart(server string) {
	BackendRestarts.WithLabelValues(server).Inc()
}

// Handler returns the Prometheus scrape handler for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
