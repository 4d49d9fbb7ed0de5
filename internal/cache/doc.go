// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package cache provides the response cache used by the read API.

Recommendation and analytics results are expensive to compute and tolerate
bounded staleness, so handlers cache the encoded response body for a fixed
TTL. The cache is a plain byte store; callers own serialization.

# Backends

  - memory: process-local LRU with per-entry expiry (default)
  - redis: shared cache through go-redis, guarded by a circuit breaker so a
    Redis outage degrades to cache misses instead of failed requests
  - badger: persistent on-disk cache that survives restarts
  - none: every lookup misses

# Keys and Scopes

Keys are built with GenerateKey(scope, operation, params). The scope is a
readable prefix (CustomerScope(42) = "customer:42", or GlobalScope) and the
parameters are hashed, so all entries belonging to one customer can be
removed with a single prefix delete:

	key := cache.GenerateKey(cache.CustomerScope(42), "recommended_services", params)
	...
	removed, err := cache.InvalidateCustomer(ctx, store, 42)

Clear drops everything and is called after a snapshot import replaces the
marketplace data.

# Metrics

Every backend records hits, misses and errors through internal/metrics,
labelled by backend name.
*/
package cache
