// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package logging provides centralized zerolog-based structured logging for Servicebridge.
//
// JSON output is the default; console output is available for development.
// Init configures the global logger from the logging config section and is
// called once from main. Until then a JSON logger at info level writes to
// stderr.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int64("customer_id", id).Msg("Recommendations computed")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Strategy skipped")
//
// # Context Propagation
//
// The HTTP middleware stores a request ID and a correlation ID in the request
// context; the auth middleware adds the caller's role and profile id. Ctx
// returns a logger carrying every field present, so handler logs can be joined
// with access logs and metrics.
//
// # Components
//
// Long-lived components derive child loggers:
//
//	logger := logging.WithComponent("snapshot")
//
// The engine packages accept a zerolog.Logger in their constructors and are
// handed such a child logger by main.
//
// # Suture Integration
//
// SlogHandler bridges slog to zerolog so the supervisor tree can log through
// sutureslog:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Access Events
//
// AccessLogger records rejected tokens and authorization denials with
// sanitized fields. Raw bearer tokens are never logged.
package logging
