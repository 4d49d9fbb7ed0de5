// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package config

import (
	"time"

	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/predict"
	"github.com/tomtom215/servicebridge/internal/recommend"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Database  DatabaseConfig   `koanf:"database"`
	Cache     CacheConfig      `koanf:"cache"`
	Security  SecurityConfig   `koanf:"security"`
	Recommend recommend.Config `koanf:"recommend"`
	History   history.Config   `koanf:"history"`
	Predict   predict.Config   `koanf:"predict"`
	NATS      NATSConfig       `koanf:"nats"` // Optional: event-driven cache invalidation
	Logging   LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
	// RequestTimeout bounds every engine call made on behalf of a request.
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// Store backends.
const (
	StoreDuckDB = "duckdb"
	StoreMemory = "memory"
)

// DatabaseConfig holds the read store settings.
//
// The memory backend serves the snapshot file from a catalog.Memory and
// needs no DuckDB; it is meant for small deployments and local testing.
type DatabaseConfig struct {
	Backend                string `koanf:"backend"`
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // 0 = use NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // default true
	SkipIndexes            bool   `koanf:"skip_indexes"`             // fast test setup
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // load the bundled demo marketplace when empty

	// SnapshotPath is the collaborator's JSON export. Empty disables import.
	SnapshotPath string `koanf:"snapshot_path"`
	// SnapshotInterval re-imports SnapshotPath periodically. 0 imports once at startup.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBadger = "badger"
	CacheNone   = "none"
)

// CacheConfig holds response cache settings
type CacheConfig struct {
	Backend    string        `koanf:"backend"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"` // memory backend only

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	BadgerPath string `koanf:"badger_path"`
}

// Auth modes.
const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"
)

// SecurityConfig holds authentication, CORS and rate limiting settings
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// NATSConfig holds event-driven cache invalidation settings.
// It only takes effect in binaries built with the nats tag.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// Subject is the wildcard subject marketplace events are published on.
	Subject string `koanf:"subject"`

	// Stream is the existing JetStream stream that captures Subject.
	// Empty lets the subscriber provision a stream itself.
	Stream string `koanf:"stream"`

	// DurableName is the JetStream durable consumer name.
	DurableName string `koanf:"durable_name"`

	// QueueGroup load-balances events across replicas.
	QueueGroup string `koanf:"queue_group"`

	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
	MaxDeliver     int           `koanf:"max_deliver"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (default) or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	switch c.Server.Environment {
	case "production", "prod":
		return true
	}
	return false
}
