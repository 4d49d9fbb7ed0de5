// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/database"
	"github.com/tomtom215/servicebridge/internal/logging"
)

// marketplaceStore is what the engines read from and the snapshot service
// writes to. *database.DB and *catalog.Memory both satisfy it.
type marketplaceStore interface {
	catalog.Reader
	ImportDataset(ctx context.Context, ds *catalog.Dataset) error
	Ping(ctx context.Context) error
}

// openStore opens the configured backend and seeds demo data when asked.
// The returned close function is never nil.
func openStore(ctx context.Context, cfg *config.DatabaseConfig, now time.Time) (marketplaceStore, func(), error) {
	switch cfg.Backend {
	case config.StoreMemory:
		var ds *catalog.Dataset
		if cfg.SeedDemoData {
			ds = database.DemoDataset(now)
			logging.Info().Msg("Seeding in-memory catalog with demo marketplace data")
		}
		logging.Info().Msg("Using in-memory catalog store")
		return catalog.NewMemory(ds), func() {}, nil

	case config.StoreDuckDB, "":
		db, err := database.New(cfg)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open duckdb: %w", err)
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}
		if cfg.SeedDemoData {
			if _, err := db.SeedDemoData(ctx, now); err != nil {
				closeDB()
				return nil, func() {}, err
			}
		}
		logging.Info().Str("path", cfg.Path).Msg("Database initialized successfully")
		return db, closeDB, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
