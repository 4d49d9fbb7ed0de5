// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package supervisor provides process supervision for Servicebridge using suture v4.

The tree organizes long-running services into three layers for failure
isolation:

	RootSupervisor ("servicebridge")
	├── DataSupervisor ("data-layer")
	│   ├── SnapshotService (if database.snapshot_interval > 0)
	│   └── CacheJanitorService (memory and badger cache backends)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventConsumerService (build tag: nats, if nats.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog to the slog bridge of the application logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout, logger))
	errCh := tree.ServeBackground(ctx)

Canceling ctx stops every service; each gets ShutdownTimeout to return.
*/
package supervisor
