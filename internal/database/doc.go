// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package database provides the DuckDB-backed read store for marketplace records.

DB implements catalog.Reader over six tables mirroring the marketplace read
model:

  - categories
  - customers
  - professionals and professional_categories
  - services
  - bookings

The store never writes marketplace data on its own. Records arrive through
ImportDataset, which replaces every table inside one transaction so readers
never see a half-imported snapshot. The snapshot file is the collaborator's
JSON export (catalog.Dataset); SeedDemoData loads a generated demo
marketplace for development.

# Query Semantics

Every listing is ordered by ascending id. Empty filter slices mean "no
filter". The booking city filter is a case-insensitive substring match.
Timestamps are stored as UTC TIMESTAMP values and returned in UTC. Prices are
DECIMAL(12,2) columns read back through their string form so that
decimal.Decimal values are exact.

# Connection Management

The connection string carries the DuckDB tuning options from
config.DatabaseConfig (threads, max_memory, preserve_insertion_order).
Autoinstall and autoload of extensions are disabled; the schema uses core
types only. Close checkpoints the WAL before closing the pool.

# Observability

Every query records its duration and outcome through metrics.RecordDBQuery
with an operation name and the table it reads.

# Testing

Tests use in-memory databases (":memory:") serialized through a package
semaphore, and go-sqlmock for driver failure paths.
*/
package database
