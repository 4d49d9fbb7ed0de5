// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)

Engine Metrics:
  - engine_operation_duration_seconds: Recommendation and analytics latency (histogram)
    Labels: operation (recommend_services, recommend_professionals,
    recommend_categories, similar_services, suggested_categories,
    optimal_pricing, cancellation_risk, demand_forecast, peak_hours)
  - engine_operation_errors_total: Failed operations (counter)
  - recommend_strategy_duration_seconds: Strategy latency (histogram)
  - recommend_strategy_candidates: Services scored per strategy run (histogram)
  - recommend_strategy_failures_total: Strategy failures skipped or propagated (counter)
  - cancellation_risk_assessments_total: Assessments by risk level (counter)

Cache Metrics:
  - cache_hits_total, cache_misses_total: Lookups by backend (counter)
  - cache_errors_total: Backend failures (counter)
  - cache_invalidations_total: Invalidations by reason (counter)
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total: Redis breaker health

Snapshot and Event Metrics:
  - snapshot_load_duration_seconds, snapshot_records, snapshot_errors_total,
    snapshot_last_success_timestamp
  - nats_messages_consumed_total, nats_messages_processed_total,
    nats_messages_parse_failed_total, nats_processing_duration_seconds
  - event_invalidations_total: Events that evicted cached responses

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "bookings", time.Since(start), err)

# Thread Safety

All functions are safe for concurrent use; the underlying collectors are.
*/
package metrics
