// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/servicebridge/internal/logging"
)

// schemaContext bounds schema creation.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Reference columns are nullable: the collaborator may export a booking that
// lost its customer, and the engine must see that as an integrity error
// rather than have the import reject it silently.
var tableStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT PRIMARY KEY,
		user_id BIGINT,
		name VARCHAR,
		city VARCHAR,
		latitude DOUBLE,
		longitude DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS professionals (
		id BIGINT PRIMARY KEY,
		user_id BIGINT,
		name VARCHAR,
		city VARCHAR,
		latitude DOUBLE,
		longitude DOUBLE,
		is_active BOOLEAN NOT NULL DEFAULT true,
		verification_status VARCHAR NOT NULL DEFAULT 'PENDING',
		avg_rating DOUBLE NOT NULL DEFAULT 0,
		total_reviews INTEGER NOT NULL DEFAULT 0,
		years_of_experience INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS professional_categories (
		professional_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		PRIMARY KEY (professional_id, category_id)
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGINT PRIMARY KEY,
		professional_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		title VARCHAR NOT NULL DEFAULT '',
		description VARCHAR,
		pricing_type VARCHAR,
		price_per_unit DECIMAL(12,2) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT PRIMARY KEY,
		customer_id BIGINT,
		professional_id BIGINT,
		service_id BIGINT,
		category_id BIGINT,
		status VARCHAR NOT NULL,
		city VARCHAR,
		scheduled_at TIMESTAMP NOT NULL,
		estimated_price DECIMAL(12,2),
		created_at TIMESTAMP NOT NULL,
		cancelled_by VARCHAR
	)`,
}

var indexStatements = []string{
	"CREATE INDEX IF NOT EXISTS idx_services_professional ON services(professional_id)",
	"CREATE INDEX IF NOT EXISTS idx_services_category ON services(category_id)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings(customer_id)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_professional ON bookings(professional_id)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_service ON bookings(service_id)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_category_created ON bookings(category_id, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_created ON bookings(created_at)",
	"CREATE INDEX IF NOT EXISTS idx_professional_categories_category ON professional_categories(category_id)",
}

// marketplaceTables lists the tables in dependency order for imports.
var marketplaceTables = []string{
	"categories",
	"customers",
	"professionals",
	"professional_categories",
	"services",
	"bookings",
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range tableStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		logging.Debug().Msg("Skipping index creation")
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
