// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package api exposes the recommendation and analytics engine over HTTP.

All endpoints are read-only GETs routed by chi:

	/api/v1/customers/{customerID}/recommendations/services
	/api/v1/customers/{customerID}/recommendations/professionals
	/api/v1/customers/{customerID}/recommendations/categories
	/api/v1/services/{serviceID}/similar
	/api/v1/services/{serviceID}/pricing-suggestion
	/api/v1/professionals/{professionalID}/suggested-categories
	/api/v1/analytics/cancellation-risk/{bookingID}
	/api/v1/analytics/demand-forecast
	/api/v1/analytics/peak-hours
	/api/v1/health/live
	/api/v1/health/ready
	/metrics
	/swagger/*

# Responses

Every response is a models.APIResponse envelope. List endpoints wrap their
items in a models.ListResponse so clients always see a count:

	{
	  "status": "success",
	  "data": {"count": 2, "recommendations": [...]},
	  "metadata": {"timestamp": "...", "query_time_ms": 12}
	}

Engine errors map to HTTP as follows:

	catalog.ErrNotFound             404 NOT_FOUND
	recommend.ErrInsufficientData   422 INSUFFICIENT_DATA
	catalog.ErrIntegrity            500 DATA_INTEGRITY
	context.DeadlineExceeded        504 TIMEOUT
	invalid parameters              400 VALIDATION_ERROR

# Caching

QueryExecutor checks the response cache before calling the engine and stores
successful results afterwards. Customer-scoped results are keyed under
cache.CustomerScope so event-driven invalidation can evict one customer
without touching the rest. Cache failures are logged and treated as misses.

# Middleware

Global: request ID, real IP, request logging, panic recovery, CORS,
Prometheus metrics and gzip compression. The /api/v1 data routes add rate
limiting, security headers and, in jwt mode, authentication and Casbin
authorization.
*/
package api
