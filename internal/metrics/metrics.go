// Package metrics exposes Prometheus instrumentation for the API, the
// emotion pipeline and the classifier client.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calmpath_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calmpath_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "calmpath_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Emotion pipeline
	EmotionUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calmpath_emotion_updates_total",
			Help: "Emotion records appended, by source and whether the current emotion changed",
		},
		[]string{"source", "applied"},
	)

	PredictionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calmpath_prediction_confidence",
			Help:    "Confidence reported by the emotion classifier",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	Recommendations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "calmpath_recommendations_total",
			Help: "Recommendation lists served",
		},
	)

	// Classifier client
	ClassifierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calmpath_classifier_requests_total",
			Help: "Calls to the emotion classifier by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: success, retry, failure, rejected
	)

	ClassifierDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calmpath_classifier_duration_seconds",
			Help:    "Wall time of a classifier prediction including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "calmpath_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calmpath_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordEmotionUpdate counts one history append
func RecordEmotionUpdate(source string, applied bool) {
	EmotionUpdates.WithLabelValues(source, strconv.FormatBool(applied)).Inc()
}

// RecordClassifierCall counts one classifier outcome
func RecordClassifierCall(operation, outcome string) {
	ClassifierRequests.WithLabelValues(operation, outcome).Inc()
}
