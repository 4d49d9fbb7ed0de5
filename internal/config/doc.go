// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package config provides centralized configuration management for Servicebridge.

Configuration is loaded by Load in three layers, later layers overriding
earlier ones:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/servicebridge/config.yaml
 3. Mapped environment variables

Unknown environment variables are ignored so that the process environment
cannot pollute the configuration tree.

# Sections

  - server: bind address, timeouts, per-request engine deadline
  - database: store backend (duckdb or memory), DuckDB tuning, snapshot import
  - cache: response cache backend (memory, redis, badger, none) and TTL
  - security: auth mode (none or jwt), CORS, rate limiting
  - recommend: strategy weights, limits and tuning constants
  - history: sample thresholds and priors of the historical aggregator
  - predict: risk factor weights and forecast parameters
  - nats: event-driven cache invalidation (requires the nats build tag)
  - logging: zerolog level, format and caller

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, REQUEST_TIMEOUT, ENVIRONMENT

Database:
  - STORE_BACKEND, DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - SNAPSHOT_PATH, SNAPSHOT_INTERVAL, SEED_DEMO_DATA

Cache:
  - CACHE_BACKEND, CACHE_TTL, CACHE_MAX_ENTRIES
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, BADGER_PATH

Security:
  - AUTH_MODE, JWT_SECRET, CORS_ORIGINS (comma-separated)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Engine:
  - RECOMMEND_RADIUS_KM, RECOMMEND_STRATEGY_TIMEOUT, HISTORY_LOOKBACK_WEEKS
  - FORECAST_MAX_DAYS

NATS:
  - NATS_ENABLED, NATS_URL, NATS_SUBJECT, NATS_STREAM, NATS_DURABLE_NAME
  - NATS_QUEUE_GROUP

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate runs once after loading and is split per section. Engine weight sets
must sum to 1.0; they are rejected rather than normalized.

# Thread Safety

Config values are read-only after Load returns and may be shared across
goroutines without synchronization.
*/
package config
