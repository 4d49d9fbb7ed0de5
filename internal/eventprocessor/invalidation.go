// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

// CacheEvictor removes the cached responses an event makes stale.
type CacheEvictor struct {
	store cache.Store
	log   *logging.EventLogger
}

// NewCacheEvictor creates an evictor over store.
func NewCacheEvictor(store cache.Store, log *logging.EventLogger) (*CacheEvictor, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: cache store is required", ErrInvalidConfig)
	}
	if log == nil {
		log = logging.NewEventLogger()
	}
	return &CacheEvictor{store: store, log: log}, nil
}

// Evict drops the customer's cached responses. Events without a customer,
// such as a review with no reviewer id, evict nothing; the global scope
// expires on its TTL.
func (e *CacheEvictor) Evict(ctx context.Context, event *MarketplaceEvent) (int, error) {
	if event == nil {
		return 0, errors.New("nil event")
	}
	e.log.LogEventReceived(ctx, event.ID, string(event.Type), event.CustomerID)

	if event.CustomerID <= 0 {
		return 0, nil
	}

	removed, err := cache.InvalidateCustomer(ctx, e.store, event.CustomerID)
	if err != nil {
		e.log.LogEventFailed(ctx, event.ID, err)
		return removed, err
	}

	metrics.RecordEventInvalidation(string(event.Type))
	e.log.LogInvalidated(ctx, event.ID, event.CustomerID, removed)
	return removed, nil
}

// HandlePayload parses a raw message body and evicts for it. Malformed
// payloads return an error wrapping ErrMalformedEvent.
func (e *CacheEvictor) HandlePayload(ctx context.Context, payload []byte) (int, error) {
	event, err := ParseEvent(payload)
	if err != nil {
		metrics.RecordNATSParseFailed()
		return 0, err
	}
	if correlation := logging.CorrelationIDFromContext(ctx); correlation == "" {
		ctx = logging.ContextWithCorrelationID(ctx, event.ID)
	}
	return e.Evict(ctx, event)
}
