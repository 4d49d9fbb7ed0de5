// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

// BadgerStore is a persistent cache in an embedded BadgerDB. Expiry uses
// Badger's native entry TTL, so expired keys are invisible to reads and are
// reclaimed by compaction.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerStore opens (or creates) a Badger database in dir.
func NewBadgerStore(dir string, ttl time.Duration) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("badger cache: create dir %s: %w", dir, err)
	}
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{logger: logging.WithComponent("badger")}).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger cache: open %s: %w", dir, err)
	}
	return newBadgerStoreWithDB(db, ttl), nil
}

func newBadgerStoreWithDB(db *badger.DB, ttl time.Duration) *BadgerStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BadgerStore{db: db, ttl: ttl}
}

// Name implements Store.
func (s *BadgerStore) Name() string { return config.CacheBadger }

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordCacheLookup(config.CacheBadger, false)
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError(config.CacheBadger, "get")
		return nil, false, fmt.Errorf("badger get: %w", err)
	}
	metrics.RecordCacheLookup(config.CacheBadger, true)
	return value, true, nil
}

// Set implements Store.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(s.ttl))
	})
	if err != nil {
		metrics.RecordCacheError(config.CacheBadger, "set")
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// DeletePrefix implements Store. Keys are collected in a read transaction and
// removed through a write batch so large scopes do not exceed transaction limits.
func (s *BadgerStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		metrics.RecordCacheError(config.CacheBadger, "delete_prefix")
		return 0, fmt.Errorf("badger scan prefix: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			metrics.RecordCacheError(config.CacheBadger, "delete_prefix")
			return 0, fmt.Errorf("badger delete: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		metrics.RecordCacheError(config.CacheBadger, "delete_prefix")
		return 0, fmt.Errorf("badger flush: %w", err)
	}
	return len(keys), nil
}

// Clear implements Store.
func (s *BadgerStore) Clear(_ context.Context) error {
	if err := s.db.DropAll(); err != nil {
		metrics.RecordCacheError(config.CacheBadger, "clear")
		return fmt.Errorf("badger clear: %w", err)
	}
	return nil
}

// RunValueLogGC reclaims value log space. It returns nil when there was
// nothing to collect.
func (s *BadgerStore) RunValueLogGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes Badger's internal logging into zerolog. Info and debug
// output is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
