// Package metrics records Prometheus metrics for requests sent by the client
// package.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder publishes request counts and latencies. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRecorder registers the request metrics with reg. When reg is nil a
// dedicated registry is created so several recorders can coexist.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "netcall",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Requests completed by the client, by outcome.",
	}, []string{"host", "method", "outcome", "status_code"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "netcall",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Latency of completed round trips.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"host", "method", "outcome"})

	reg.MustRegister(requests, latency)

	return &Recorder{
		gatherer: reg,
		requests: requests,
		latency:  latency,
	}
}

// Gatherer returns the underlying registry for scraping and tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveRequest records one finished request. outcome is "ok" or the error
// kind; statusCode is zero when no response arrived. Requests that failed
// before reaching the transport pass an empty host and method and a zero
// duration, and are only counted.
func (r *Recorder) ObserveRequest(host, method, outcome string, statusCode int, duration time.Duration) {
	if r == nil {
		return
	}

	status := strconv.Itoa(statusCode)
	if statusCode == 0 {
		status = "none"
	}

	host, method = normalizeLabel(host), normalizeLabel(method)

	r.requests.WithLabelValues(host, method, outcome, status).Inc()
	if duration > 0 {
		r.latency.WithLabelValues(host, method, outcome).Observe(duration.Seconds())
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
