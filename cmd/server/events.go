// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

//go:build nats

package main

import (
	"fmt"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/eventprocessor"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/supervisor"
	"github.com/tomtom215/servicebridge/internal/supervisor/services"
)

// addEventConsumer adds the NATS cache invalidator to the messaging layer.
// It is a no-op when NATS is disabled in configuration.
func addEventConsumer(tree *supervisor.SupervisorTree, cfg *config.NATSConfig, store cache.Store) error {
	if !cfg.Enabled {
		logging.Info().Msg("NATS cache invalidation disabled (NATS_ENABLED=false)")
		return nil
	}

	inv, err := eventprocessor.NewInvalidator(cfg, store, logging.WithComponent("eventprocessor"))
	if err != nil {
		return fmt.Errorf("create cache invalidator: %w", err)
	}
	tree.AddMessagingService(services.NewEventConsumerService(inv, tree.ShutdownTimeout()))
	logging.Info().
		Str("url", cfg.URL).
		Str("subject", cfg.Subject).
		Str("durable", cfg.DurableName).
		Msg("NATS cache invalidator added to supervisor tree (messaging layer)")
	return nil
}
