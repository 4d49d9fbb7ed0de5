// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package middleware provides HTTP middleware components for the read API.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging
    context together with a correlation ID
  - Prometheus Metrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality
  - Request Logging: one structured line per request through logging.Ctx

All middleware has the chi signature func(http.Handler) http.Handler and is
installed with router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger)

Order matters: RequestID must run first so later middleware and handlers see
the IDs in the request context.
*/
package middleware
