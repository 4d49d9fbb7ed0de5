// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

const (
	redisBreakerName = "redis_cache"
	redisScanCount   = 500
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key so several deployments can share a server.
	Prefix string
	TTL    time.Duration

	// Breaker settings. Zero values take the defaults below.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// RedisStore is a shared cache on Redis. Calls go through a circuit breaker:
// after FailureThreshold consecutive failures the breaker opens and lookups
// fail fast until OpenTimeout has passed.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// NewRedisStore connects to Redis. The connection is verified lazily; an
// unreachable server shows up as cache errors, not a startup failure.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis cache: address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	return newRedisStoreWithClient(client, opts), nil
}

func newRedisStoreWithClient(client *redis.Client, opts RedisOptions) *RedisStore {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	threshold := opts.FailureThreshold

	settings := gobreaker.Settings{
		Name:        redisBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A miss is a normal answer, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache circuit breaker state changed")
		},
	}

	return &RedisStore{
		client:  client,
		prefix:  opts.Prefix,
		ttl:     opts.TTL,
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// Name implements Store.
func (s *RedisStore) Name() string { return config.CacheRedis }

// execute runs fn through the breaker and records the outcome.
func (s *RedisStore) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	out, err := s.breaker.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(redisBreakerName, "rejected")
	case err != nil && !errors.Is(err, redis.Nil):
		metrics.RecordCircuitBreakerRequest(redisBreakerName, "failure")
		metrics.RecordCacheError(config.CacheRedis, op)
	default:
		metrics.RecordCircuitBreakerRequest(redisBreakerName, "success")
	}
	return out, err
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.execute("get", func() (interface{}, error) {
		return s.client.Get(ctx, s.prefix+key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(config.CacheRedis, false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	metrics.RecordCacheLookup(config.CacheRedis, true)
	return out.([]byte), true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.execute("set", func() (interface{}, error) {
		return nil, s.client.Set(ctx, s.prefix+key, value, s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// DeletePrefix implements Store with SCAN and DEL, so large keyspaces are
// walked in batches without blocking the server.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	out, err := s.execute("delete_prefix", func() (interface{}, error) {
		return s.deleteMatching(ctx, escapeGlob(s.prefix+prefix)+"*")
	})
	if err != nil {
		return 0, fmt.Errorf("redis delete prefix: %w", err)
	}
	return out.(int), nil
}

// Clear implements Store. Only keys under the configured prefix are removed.
func (s *RedisStore) Clear(ctx context.Context) error {
	_, err := s.execute("clear", func() (interface{}, error) {
		return s.deleteMatching(ctx, escapeGlob(s.prefix)+"*")
	})
	if err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

func (s *RedisStore) deleteMatching(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, redisScanCount).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Ping checks connectivity to the Redis server.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// BreakerState returns the circuit breaker state name.
func (s *RedisStore) BreakerState() string {
	return s.breaker.State().String()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// escapeGlob escapes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
