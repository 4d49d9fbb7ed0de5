// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package cache

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

// Store is a byte-oriented cache with a backend-wide TTL.
type Store interface {
	// Get returns the value and true on a hit. A backend failure is
	// returned as an error and should be treated as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for the configured TTL.
	Set(ctx context.Context, key string, value []byte) error

	// DeletePrefix removes every key starting with prefix and returns how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Clear removes all entries owned by this cache.
	Clear(ctx context.Context) error

	// Name returns the backend name used in metrics and logs.
	Name() string

	Close() error
}

// GlobalScope is the scope of results that are not tied to one customer.
const GlobalScope = "global"

const scopeSeparator = "/"

// CustomerScope returns the scope of results computed for one customer.
func CustomerScope(customerID int64) string {
	return fmt.Sprintf("customer:%d", customerID)
}

// ScopePrefix returns the key prefix shared by every key in scope.
func ScopePrefix(scope string) string {
	return scope + scopeSeparator
}

// GenerateKey creates a cache key from the scope, operation name and parameters
func GenerateKey(scope, operation string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s%s:%v", ScopePrefix(scope), operation, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s%s:%x", ScopePrefix(scope), operation, hash[:16])
}

// InvalidateCustomer removes every cached result scoped to customerID.
func InvalidateCustomer(ctx context.Context, s Store, customerID int64) (int, error) {
	n, err := s.DeletePrefix(ctx, ScopePrefix(CustomerScope(customerID)))
	if err != nil {
		metrics.RecordCacheError(s.Name(), "invalidate")
		return n, fmt.Errorf("invalidate customer %d: %w", customerID, err)
	}
	metrics.RecordCacheInvalidation("customer")
	return n, nil
}

// New creates the backend selected by cfg.Backend.
func New(cfg *config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return NewMemoryStore(cfg.MaxEntries, cfg.TTL), nil
	case config.CacheRedis:
		return NewRedisStore(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			TTL:      cfg.TTL,
		})
	case config.CacheBadger:
		return NewBadgerStore(cfg.BadgerPath, cfg.TTL)
	case config.CacheNone:
		return NoopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// NoopStore never stores anything.
type NoopStore struct{}

// Get always misses.
func (NoopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (NoopStore) Set(context.Context, string, []byte) error { return nil }

// DeletePrefix removes nothing.
func (NoopStore) DeletePrefix(context.Context, string) (int, error) { return 0, nil }

// Clear is a no-op.
func (NoopStore) Clear(context.Context) error { return nil }

// Name returns "none".
func (NoopStore) Name() string { return config.CacheNone }

// Close is a no-op.
func (NoopStore) Close() error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*BadgerStore)(nil)
	_ Store = NoopStore{}
)
