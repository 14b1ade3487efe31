package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leaddesk_api_requests_total",
		Help: "Total number of backend API requests",
	}, []string{"method", "path", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leaddesk_api_request_duration_seconds",
		Help:    "Duration of backend API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	sessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leaddesk_session_events_total",
		Help: "Count of session events by event and result",
	}, []string{"event", "result"})
)

// ObserveAPIRequest records a backend request. status is the HTTP code or
// "network_error" / "denied" when no response was received.
func ObserveAPIRequest(method, path, status string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, path, status).Inc()
	apiRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSessionEvent increments the session event counter
func ObserveSessionEvent(event, result string) {
	sessionEvents.WithLabelValues(event, result).Inc()
}

// APIRequests exposes the request counter for tests and diagnostics
func APIRequests() *prometheus.CounterVec {
	return apiRequestsTotal
}

// SessionEvents exposes the session counter for tests and diagnostics
func SessionEvents() *prometheus.CounterVec {
	return sessionEvents
}
