package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "profile_api_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// RetrievalAttempts tracks automated retrieval attempts by outcome
	RetrievalAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_api_retrieval_attempts_total",
			Help: "Number of Taxisnet retrieval attempts",
		},
		[]string{"status"},
	)

	// SubmissionAttempts tracks profile submission attempts by outcome
	SubmissionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_api_submission_attempts_total",
			Help: "Number of profile submission attempts",
		},
		[]string{"status"},
	)

	// ValidationFailures tracks drafts rejected by the validation engine
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_api_validation_failures_total",
			Help: "Number of validation passes that produced at least one field error",
		},
		[]string{"mode"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_api_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// ActiveFlows tracks acquisition flows currently held in memory
	ActiveFlows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_api_active_flows",
			Help: "Number of active acquisition flows",
		},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_api_active_connections",
			Help: "Number of active connections",
		},
	)
)
