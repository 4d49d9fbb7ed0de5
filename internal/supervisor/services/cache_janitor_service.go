// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiringCache drops expired entries on demand. Satisfied by
// *cache.MemoryStore, which only expires entries lazily on read otherwise.
type ExpiringCache interface {
	CleanupExpired() int
}

// GarbageCollectedCache reclaims disk space. Satisfied by *cache.BadgerStore.
type GarbageCollectedCache interface {
	RunValueLogGC() error
}

// CacheJanitorService performs periodic maintenance on the response cache.
// Backends without maintenance needs (redis, none) are not given a janitor.
type CacheJanitorService struct {
	cache    interface{}
	interval time.Duration
	logger   zerolog.Logger
}

// NeedsJanitor reports whether store has periodic maintenance work.
func NeedsJanitor(store interface{}) bool {
	switch store.(type) {
	case ExpiringCache, GarbageCollectedCache:
		return true
	default:
		return false
	}
}

// NewCacheJanitorService creates a janitor for store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(store interface{}, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		cache:    store,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
	}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce performs one maintenance pass.
func (j *CacheJanitorService) RunOnce() {
	if c, ok := j.cache.(ExpiringCache); ok {
		if n := c.CleanupExpired(); n > 0 {
			j.logger.Debug().Int("evicted", n).Msg("Expired cache entries removed")
		}
	}
	if c, ok := j.cache.(GarbageCollectedCache); ok {
		if err := c.RunValueLogGC(); err != nil {
			j.logger.Warn().Err(err).Msg("Cache value log GC failed")
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (j *CacheJanitorService) String() string {
	return "cache-janitor"
}
