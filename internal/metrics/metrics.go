// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package metrics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Recommendation and analytics operations
// - Response cache efficiency
// - Snapshot imports and event-driven invalidation

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Engine Metrics
	EngineOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_operation_duration_seconds",
			Help:    "Duration of recommendation and analytics operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	EngineOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_operation_errors_total",
			Help: "Total number of failed recommendation and analytics operations",
		},
		[]string{"operation", "error_type"}, // error_type: "timeout", "canceled", "other"
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_strategy_duration_seconds",
			Help:    "Duration of a single scoring strategy run in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"strategy"},
	)

	StrategyCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_strategy_candidates",
			Help:    "Number of services scored by a strategy run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"strategy"},
	)

	StrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_strategy_failures_total",
			Help: "Total number of scoring strategy failures",
		},
		[]string{"strategy"},
	)

	RiskAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cancellation_risk_assessments_total",
			Help: "Total number of cancellation risk assessments by level",
		},
		[]string{"level"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "redis", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"cache_type", "operation"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache invalidations",
		},
		[]string{"reason"}, // "snapshot", "event", "manual"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Snapshot Metrics
	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_load_duration_seconds",
			Help:    "Duration of marketplace snapshot imports in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	SnapshotRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_records",
			Help: "Number of records loaded by the last snapshot import",
		},
		[]string{"table"},
	)

	SnapshotErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_errors_total",
			Help: "Total number of failed snapshot imports",
		},
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot import",
		},
	)

	// NATS Event Metrics
	NATSMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
	)

	NATSMessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_processed_total",
			Help: "Total number of messages successfully processed",
		},
	)

	NATSMessagesParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_parse_failed_total",
			Help: "Total number of messages that failed to parse",
		},
	)

	NATSProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nats_processing_duration_seconds",
			Help:    "Duration of NATS message processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_invalidations_total",
			Help: "Total number of marketplace events that evicted cached responses",
		},
		[]string{"event_type"},
	)

	// Access Control Metrics
	AuthTokenRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_rejections_total",
			Help: "Total number of requests rejected during bearer token verification",
		},
		[]string{"reason"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions by role and result",
		},
		[]string{"role", "result"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordEngineOperation records a recommendation or analytics operation
// with a coarse error class.
func RecordEngineOperation(operation string, duration time.Duration, err error) {
	EngineOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		EngineOperationErrors.WithLabelValues(operation, errorClass(err)).Inc()
	}
}

// RecordStrategy records one scoring strategy run
func RecordStrategy(strategy string, duration time.Duration, candidates int, err error) {
	StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if err != nil {
		StrategyFailures.WithLabelValues(strategy).Inc()
		return
	}
	StrategyCandidates.WithLabelValues(strategy).Observe(float64(candidates))
}

// RecordRiskAssessment records the level of a cancellation risk assessment
func RecordRiskAssessment(level string) {
	RiskAssessments.WithLabelValues(level).Inc()
}

// RecordCacheLookup records a response cache lookup on the given backend
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCacheError records a failed cache backend operation
func RecordCacheError(cacheType, operation string) {
	CacheErrors.WithLabelValues(cacheType, operation).Inc()
}

// RecordCacheInvalidation records a cache invalidation
func RecordCacheInvalidation(reason string) {
	CacheInvalidations.WithLabelValues(reason).Inc()
}

// RecordCircuitBreakerRequest records the outcome of a call through a breaker
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change. States use
// the gobreaker names ("closed", "half-open", "open").
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordSnapshotLoad records a snapshot import with per-table record counts
func RecordSnapshotLoad(duration time.Duration, records map[string]int, err error) {
	SnapshotLoadDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotErrors.Inc()
		return
	}
	for table, n := range records {
		SnapshotRecords.WithLabelValues(table).Set(float64(n))
	}
	SnapshotLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordNATSConsume records a message being consumed from NATS
func RecordNATSConsume() {
	NATSMessagesConsumed.Inc()
}

// RecordNATSProcessed records a message being successfully processed
func RecordNATSProcessed(duration time.Duration) {
	NATSMessagesProcessed.Inc()
	NATSProcessingDuration.Observe(duration.Seconds())
}

// RecordNATSParseFailed records a message that failed to parse
func RecordNATSParseFailed() {
	NATSMessagesParseFailed.Inc()
}

// RecordEventInvalidation records a marketplace event that evicted cache entries
func RecordEventInvalidation(eventType string) {
	EventInvalidations.WithLabelValues(eventType).Inc()
}

// RecordTokenRejected records a bearer token rejection
func RecordTokenRejected(reason string) {
	AuthTokenRejections.WithLabelValues(reason).Inc()
}

// RecordAuthzDecision records an authorization decision for role
func RecordAuthzDecision(role string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	AuthzDecisions.WithLabelValues(role, result).Inc()
}

// SetAppInfo publishes the build version
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// UpdateUptime sets the uptime gauge from the process start time
func UpdateUptime(started time.Time) {
	AppUptime.Set(time.Since(started).Seconds())
}

// StatusLabel formats an HTTP status code as a metric label
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case strings.Contains(err.Error(), "not found"):
		return "not_found"
	default:
		return "other"
	}
}
