// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

//go:build !nats

package main

import (
	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/supervisor"
)

// addEventConsumer warns when NATS is configured but not compiled in.
func addEventConsumer(_ *supervisor.SupervisorTree, cfg *config.NATSConfig, _ cache.Store) error {
	if cfg.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but this binary was built without -tags nats; cache entries expire on TTL only")
	}
	return nil
}
