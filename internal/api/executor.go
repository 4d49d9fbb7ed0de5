// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
)

// QueryFunc computes a response payload. The result must be JSON-serializable
// because it is cached as JSON.
type QueryFunc func(ctx context.Context) (interface{}, error)

// Query describes one cacheable engine call.
type Query struct {
	// Scope is cache.GlobalScope or a cache.CustomerScope.
	Scope string
	// Operation names the call in cache keys and logs.
	Operation string
	// Params are hashed into the cache key together with Operation.
	Params interface{}
	// Subject names the record addressed by the request, used in 404 messages.
	Subject string
}

// QueryExecutor implements the cache-first flow shared by every data
// endpoint:
//
//  1. Check the cache for a stored payload
//  2. Run the query under the request timeout on a miss
//  3. Store the payload for subsequent requests
//  4. Respond with query time and cache status in the metadata
//
// Cache failures never fail the request.
type QueryExecutor struct {
	cache   cache.Store
	timeout time.Duration
}

// NewQueryExecutor creates an executor over store. A zero timeout adds no
// deadline beyond the request context.
func NewQueryExecutor(store cache.Store, timeout time.Duration) *QueryExecutor {
	return &QueryExecutor{cache: store, timeout: timeout}
}

// Execute runs q through the cache and writes the response.
func (e *QueryExecutor) Execute(w http.ResponseWriter, r *http.Request, q Query, fn QueryFunc) {
	ctx := r.Context()
	key := cache.GenerateKey(q.Scope, q.Operation, q.Params)

	if cached, ok := e.lookup(ctx, key, q.Operation); ok {
		respondSuccess(w, cached, 0, true)
		return
	}

	start := time.Now()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	data, err := fn(ctx)
	if err != nil {
		respondEngineError(w, r, q.Subject, err)
		return
	}
	elapsed := time.Since(start)

	e.store(r.Context(), key, q.Operation, data)
	respondSuccess(w, data, elapsed, false)
}

func (e *QueryExecutor) lookup(ctx context.Context, key, operation string) (json.RawMessage, bool) {
	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", operation).Msg("Cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return json.RawMessage(raw), true
}

func (e *QueryExecutor) store(ctx context.Context, key, operation string, data interface{}) {
	if e.cache.Name() == config.CacheNone {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", operation).Msg("Failed to encode response for cache")
		return
	}
	if err := e.cache.Set(ctx, key, raw); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", operation).Msg("Cache store failed")
	}
}
