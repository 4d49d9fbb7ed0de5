// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

// DatasetImporter replaces the served marketplace data. Satisfied by
// *database.DB and *catalog.Memory.
type DatasetImporter interface {
	ImportDataset(ctx context.Context, ds *catalog.Dataset) error
}

// SnapshotServiceConfig holds configuration for the snapshot service.
type SnapshotServiceConfig struct {
	// Path is the JSON export to import.
	Path string

	// Interval between import attempts.
	Interval time.Duration

	// ImportTimeout bounds one import. Default: 5m
	ImportTimeout time.Duration
}

// SnapshotService re-imports the marketplace snapshot periodically.
//
// An unchanged file (same size and modification time as the last successful
// import) is skipped. Failed imports keep the previous data and are retried
// on the next tick.
type SnapshotService struct {
	importer DatasetImporter
	config   SnapshotServiceConfig
	logger   zerolog.Logger

	// afterImport runs after every successful import.
	afterImport func(ctx context.Context)
	load        func(path string) (*catalog.Dataset, error)

	lastSize    int64
	lastModTime time.Time
}

// NewSnapshotService creates a snapshot service. afterImport may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotService(importer DatasetImporter, cfg SnapshotServiceConfig, afterImport func(ctx context.Context), logger zerolog.Logger) *SnapshotService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = 5 * time.Minute
	}
	return &SnapshotService{
		importer:    importer,
		config:      cfg,
		logger:      logger.With().Str("service", "snapshot").Logger(),
		afterImport: afterImport,
		load:        catalog.LoadDatasetFile,
	}
}

// Serve implements suture.Service.
func (s *SnapshotService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("path", s.config.Path).
		Dur("interval", s.config.Interval).
		Msg("Snapshot refresh running")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Snapshot refresh failed, keeping previous data")
			}
		}
	}
}

// Refresh imports the snapshot when it changed since the last import.
// It reports whether an import happened.
func (s *SnapshotService) Refresh(ctx context.Context) (bool, error) {
	info, err := os.Stat(s.config.Path)
	if err != nil {
		return false, fmt.Errorf("stat snapshot: %w", err)
	}
	if info.Size() == s.lastSize && info.ModTime().Equal(s.lastModTime) {
		s.logger.Debug().Msg("Snapshot unchanged, skipping import")
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ImportTimeout)
	defer cancel()

	start := time.Now()
	ds, err := s.load(s.config.Path)
	if err == nil {
		err = s.importer.ImportDataset(ctx, ds)
	}
	var counts map[string]int
	if ds != nil {
		counts = ds.Counts()
	}
	metrics.RecordSnapshotLoad(time.Since(start), counts, err)
	if err != nil {
		return false, err
	}

	s.lastSize = info.Size()
	s.lastModTime = info.ModTime()
	if s.afterImport != nil {
		s.afterImport(ctx)
	}
	s.logger.Info().
		Int("bookings", len(ds.Bookings)).
		Dur("duration", time.Since(start)).
		Msg("Snapshot imported")
	return true, nil
}

// String implements fmt.Stringer for suture logs.
func (s *SnapshotService) String() string {
	return "snapshot-refresh"
}
