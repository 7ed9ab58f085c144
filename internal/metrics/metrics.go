// Package metrics exposes Prometheus metrics for the symposium service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the service's Prometheus collectors.
type Manager struct {
	registry prometheus.Registerer

	syncPasses            prometheus.Counter
	syncErrors            prometheus.Counter
	submissionTransitions *prometheus.CounterVec
	sheetsSubmitted       prometheus.Counter
	queuePulls            prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager

var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = NewManager(customRegistry)
}

// NewManager creates a manager registering all collectors on reg.
func NewManager(reg prometheus.Registerer) *Manager {
	m := &Manager{registry: reg}
	auto := promauto.With(reg)

	m.syncPasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "symposium",
		Subsystem: "schedule",
		Name:      "sync_passes_total",
		Help:      "Total number of completed status sync passes",
	})

	m.syncErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "symposium",
		Subsystem: "schedule",
		Name:      "sync_errors_total",
		Help:      "Total number of status sync passes aborted by an error",
	})

	m.submissionTransitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symposium",
			Subsystem: "schedule",
			Name:      "submission_transitions_total",
			Help:      "Total number of submission status transitions by target status",
		},
		[]string{"to_status"},
	)

	m.sheetsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "symposium",
		Subsystem: "scoring",
		Name:      "sheets_submitted_total",
		Help:      "Total number of score sheets submitted by judges",
	})

	m.queuePulls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "symposium",
		Subsystem: "queue",
		Name:      "pulls_total",
		Help:      "Total number of next-submission pulls from judging queues",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symposium",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "symposium",
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	return m
}

// RecordSyncPass increments the completed sync pass counter.
func RecordSyncPass() {
	globalManager.syncPasses.Inc()
}

// RecordSyncError increments the aborted sync pass counter.
func RecordSyncError() {
	globalManager.syncErrors.Inc()
}

// RecordSubmissionTransition adds moved to the transition counter for toStatus.
func RecordSubmissionTransition(toStatus string, moved int64) {
	globalManager.submissionTransitions.WithLabelValues(toStatus).Add(float64(moved))
}

// RecordSheetSubmitted increments the submitted score sheet counter.
func RecordSheetSubmitted() {
	globalManager.sheetsSubmitted.Inc()
}

// RecordQueuePull increments the queue pull counter.
func RecordQueuePull() {
	globalManager.queuePulls.Inc()
}

// RecordHTTPRequest records one finished HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the registry holding the service's collectors.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
