// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package main is the entry point for the Servicebridge server.

Servicebridge serves recommendations and predictive analytics for a local
services marketplace. It reads customers, professionals, services and bookings
from a DuckDB store (or an in-memory catalog) that is filled from the
marketplace application's JSON export, and answers read-only HTTP queries.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("servicebridge")
	├── DataSupervisor ("data-layer")
	│   ├── Snapshot refresh (SNAPSHOT_INTERVAL > 0)
	│   └── Cache janitor (memory and badger caches)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event consumer (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Store: DuckDB or in-memory catalog, demo seed and initial snapshot import
 4. Engines: history aggregator, recommendation strategies, risk and forecast
 5. Cache: memory, redis, badger or none
 6. Authentication: JWT verification and casbin authorization (AUTH_MODE=jwt)
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8080               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Store
	STORE_BACKEND=duckdb         # duckdb or memory
	DUCKDB_PATH=/data/servicebridge.duckdb
	SNAPSHOT_PATH=/data/export.json
	SNAPSHOT_INTERVAL=1h         # 0 imports once at startup
	SEED_DEMO_DATA=false

	# Cache
	CACHE_BACKEND=memory         # memory, redis, badger or none
	CACHE_TTL=5m

	# Authentication
	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>       # Required for JWT mode

# Build Tags

	go build ./cmd/server               # Standard build
	go build -tags nats ./cmd/server    # Enable NATS cache invalidation

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (SHUTDOWN_TIMEOUT)
 3. Stops the event consumer and background services
 4. Closes the cache and the store
 5. Reports any services that failed to stop

# Usage Examples

Development with demo data:

	export AUTH_MODE=none STORE_BACKEND=memory SEED_DEMO_DATA=true
	go run ./cmd/server

Production:

	export AUTH_MODE=jwt JWT_SECRET=$(openssl rand -base64 32)
	export SNAPSHOT_PATH=/data/export.json SNAPSHOT_INTERVAL=15m
	export CACHE_BACKEND=redis REDIS_ADDR=redis:6379
	./servicebridge

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/recommend: Recommendation engine
  - internal/predict: Cancellation risk and demand forecasting
*/
package main
