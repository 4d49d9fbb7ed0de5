// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/tomtom215/servicebridge/internal/config"
)

// connectionString builds the DuckDB DSN with tuning options.
// Extension autoinstall and autoload are disabled to avoid network access at
// startup; the schema only uses core types.
func connectionString(cfg *config.DatabaseConfig) string {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	opts := []string{
		"access_mode=read_write",
		fmt.Sprintf("threads=%d", threads),
		fmt.Sprintf("preserve_insertion_order=%t", cfg.PreserveInsertionOrder),
		"autoinstall_known_extensions=false",
		"autoload_known_extensions=false",
	}
	if cfg.MaxMemory != "" {
		opts = append(opts, "max_memory="+cfg.MaxMemory)
	}
	return cfg.Path + "?" + strings.Join(opts, "&")
}

// configureConnectionPool sets connection pool parameters:
// NumCPU open connections, 2 idle, 1h lifetime, 5m idle time.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isConnectionError checks if an error indicates database connection loss
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"database is closed",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
