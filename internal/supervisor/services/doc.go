// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package services provides suture.Service wrappers for Servicebridge components.

Each wrapper adapts a component's lifecycle (ListenAndServe, Start/Shutdown,
periodic work) to suture's context-aware Serve method and implements
fmt.Stringer so the supervisor logs a readable name.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - http.ErrServerClosed is not treated as a failure

Snapshot Refresh (SnapshotService):
  - Re-imports the marketplace JSON export on an interval
  - Skips files whose size and modification time did not change
  - Calls an after-import hook, used to clear the response cache

Cache Janitor (CacheJanitorService):
  - Evicts expired entries from the in-process LRU
  - Runs value log garbage collection for the Badger backend

Event Consumer (EventConsumerService):
  - Starts the marketplace event router and shuts it down on cancellation
  - Only added to the tree in binaries built with the nats tag

# Restart Semantics

Returning an error from Serve makes suture restart the service with backoff.
Returning ctx.Err() after cancellation is a normal stop. Periodic services log
failed iterations and keep running; only the HTTP server and event consumer
return errors.
*/
package services
