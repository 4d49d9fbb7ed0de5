// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/servicebridge/docs" // Import generated swagger docs
	"github.com/tomtom215/servicebridge/internal/api"
	"github.com/tomtom215/servicebridge/internal/auth"
	"github.com/tomtom215/servicebridge/internal/authz"
	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/supervisor"
	"github.com/tomtom215/servicebridge/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Version: version,
	})

	logging.Info().
		Str("store", cfg.Database.Backend).
		Str("cache", cfg.Cache.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Servicebridge with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, &cfg.Database, time.Now())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer closeStore()

	eng, err := buildEngines(cfg, store)
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to initialize engines")
	}

	responseCache, err := cache.New(&cfg.Cache)
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to initialize response cache")
	}
	defer func() {
		if err := responseCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing response cache")
		}
	}()
	logging.Info().Str("backend", responseCache.Name()).Dur("ttl", cfg.Cache.TTL).Msg("Response cache initialized")

	handler := api.NewHandler(api.Dependencies{
		Recommender:    eng.recommender,
		Risk:           eng.risk,
		Forecaster:     eng.forecaster,
		Store:          store,
		Cache:          responseCache,
		RequestTimeout: cfg.Server.RequestTimeout,
		Version:        version,
	})

	authn, authzMW, err := initAuth(&cfg.Security)
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		authn,
		authzMW,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === DATA LAYER ===

	if cfg.Database.SnapshotPath != "" {
		snapshot := services.NewSnapshotService(store, services.SnapshotServiceConfig{
			Path:     cfg.Database.SnapshotPath,
			Interval: cfg.Database.SnapshotInterval,
		}, handler.ClearCache, logging.Logger())

		// The first import runs before the API accepts traffic. A failure
		// leaves the previously stored data in place.
		if _, err := snapshot.Refresh(ctx); err != nil {
			logging.Error().Err(err).Str("path", cfg.Database.SnapshotPath).
				Msg("Initial snapshot import failed, serving existing data")
		}
		if cfg.Database.SnapshotInterval > 0 {
			tree.AddDataService(snapshot)
			logging.Info().Dur("interval", cfg.Database.SnapshotInterval).Msg("Snapshot refresh added to supervisor tree")
		}
	}

	if services.NeedsJanitor(responseCache) {
		tree.AddDataService(services.NewCacheJanitorService(responseCache, cfg.Cache.TTL, logging.Logger()))
		logging.Info().Str("backend", responseCache.Name()).Msg("Cache janitor added to supervisor tree")
	}

	// === MESSAGING LAYER ===

	if err := addEventConsumer(tree, &cfg.NATS, responseCache); err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}

	// === API LAYER ===

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// initAuth builds the authentication and authorization middleware for
// AUTH_MODE=jwt. Both are nil when authentication is disabled.
func initAuth(sec *config.SecurityConfig) (*auth.Middleware, *authz.Middleware, error) {
	if sec.AuthMode != config.AuthModeJWT {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Every customer's recommendations are publicly readable.")
		logging.Warn().Msg("  Use this mode only for local development or behind a gateway")
		logging.Warn().Msg("  that authenticates requests itself.")
		logging.Warn().Msg("============================================================")
		return nil, nil, nil
	}

	verifier, err := auth.NewVerifier(sec)
	if err != nil {
		return nil, nil, fmt.Errorf("create token verifier: %w", err)
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, nil, fmt.Errorf("create authorization enforcer: %w", err)
	}
	logging.Info().Str("issuer", sec.JWTIssuer).Msg("JWT authentication enabled")
	return auth.NewMiddleware(verifier, sec.AuthMode), authz.NewMiddleware(enforcer), nil
}
