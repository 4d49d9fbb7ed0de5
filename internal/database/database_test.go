// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/config"
)

// testDBSemaphore limits concurrent database creation to prevent resource exhaustion in CI.
// DuckDB CGO calls can hang when many connections work at once, so only one
// test holds a database at a time.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes the New() call.
var testDBMutex sync.Mutex

// setupTestDB creates a new in-memory test database with timeout protection.
// The semaphore is held for the whole test and released via t.Cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	counts, err := db.RecordCounts(ctx)
	if err != nil {
		t.Fatalf("RecordCounts() error = %v", err)
	}
	if len(counts) != len(marketplaceTables) {
		t.Fatalf("RecordCounts() returned %d tables, want %d", len(counts), len(marketplaceTables))
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("table %s has %d rows, want 0", table, n)
		}
	}
}

func TestLookupsMissReturnNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	lookups := map[string]func() error{
		"customer":     func() error { _, err := db.Customer(ctx, 1); return err },
		"professional": func() error { _, err := db.Professional(ctx, 1); return err },
		"service":      func() error { _, err := db.Service(ctx, 1); return err },
		"booking":      func() error { _, err := db.Booking(ctx, 1); return err },
	}
	for name, lookup := range lookups {
		if err := lookup(); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("%s lookup error = %v, want ErrNotFound", name, err)
		}
	}

	cats, err := db.Categories(ctx)
	if err != nil || cats == nil || len(cats) != 0 {
		t.Errorf("Categories() = %v, %v; want empty non-nil slice", cats, err)
	}
}

func TestConnectionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want []string
		not  []string
	}{
		{
			name: "memory limit",
			cfg:  config.DatabaseConfig{Path: "/tmp/x.duckdb", MaxMemory: "2GB", Threads: 4},
			want: []string{"/tmp/x.duckdb?", "max_memory=2GB", "threads=4", "access_mode=read_write"},
		},
		{
			name: "no memory limit",
			cfg:  config.DatabaseConfig{Path: ":memory:"},
			want: []string{":memory:?", "autoinstall_known_extensions=false"},
			not:  []string{"max_memory"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := connectionString(&tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("connectionString() = %q, missing %q", got, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("connectionString() = %q, should not contain %q", got, n)
				}
			}
		})
	}
}

func TestEnsureContext(t *testing.T) {
	t.Parallel()
	db := &DB{}

	ctx, cancel := db.ensureContext(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("ensureContext should add a deadline")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	got, cancel2 := db.ensureContext(parent)
	defer cancel2()
	if got != parent {
		t.Error("ensureContext should keep an existing deadline")
	}
}
