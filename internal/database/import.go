// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

// ImportDataset replaces every marketplace table with the contents of ds in a
// single transaction. Readers see either the previous data or the new data.
func (db *DB) ImportDataset(ctx context.Context, ds *catalog.Dataset) (err error) {
	if ds == nil {
		return fmt.Errorf("import: nil dataset")
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("import_dataset", "all", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import: begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Warn().Err(rbErr).Msg("Failed to roll back dataset import")
			}
		}
	}()

	for i := len(marketplaceTables) - 1; i >= 0; i-- {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+marketplaceTables[i]); err != nil {
			return fmt.Errorf("import: clear %s: %w", marketplaceTables[i], err)
		}
	}

	steps := []struct {
		table string
		fn    func(context.Context, *sql.Tx, *catalog.Dataset) error
	}{
		{"categories", insertCategories},
		{"customers", insertCustomers},
		{"professionals", insertProfessionals},
		{"services", insertServices},
		{"bookings", insertBookings},
	}
	for _, step := range steps {
		if err = step.fn(ctx, tx, ds); err != nil {
			return fmt.Errorf("import: %s: %w", step.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("import: commit: %w", err)
	}

	logging.Info().
		Int("categories", len(ds.Categories)).
		Int("customers", len(ds.Customers)).
		Int("professionals", len(ds.Professionals)).
		Int("services", len(ds.Services)).
		Int("bookings", len(ds.Bookings)).
		Dur("duration", time.Since(start)).
		Msg("Marketplace dataset imported")
	return nil
}

// execEach prepares stmt once and runs it for n rows.
func execEach(ctx context.Context, tx *sql.Tx, stmt string, n int, args func(i int) []interface{}) error {
	if n == 0 {
		return nil
	}
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer closeWithLog(prepared, "prepared statement")

	for i := 0; i < n; i++ {
		if _, err := prepared.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

func insertCategories(ctx context.Context, tx *sql.Tx, ds *catalog.Dataset) error {
	return execEach(ctx, tx, "INSERT INTO categories (id, name) VALUES (?, ?)", len(ds.Categories),
		func(i int) []interface{} {
			c := ds.Categories[i]
			return []interface{}{c.ID, c.Name}
		})
}

func insertCustomers(ctx context.Context, tx *sql.Tx, ds *catalog.Dataset) error {
	return execEach(ctx, tx,
		"INSERT INTO customers (id, user_id, name, city, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?)",
		len(ds.Customers),
		func(i int) []interface{} {
			c := &ds.Customers[i]
			lat, lon := coordinates(c.Location)
			return []interface{}{c.ID, c.UserID, c.Name, c.City, lat, lon}
		})
}

func insertProfessionals(ctx context.Context, tx *sql.Tx, ds *catalog.Dataset) error {
	err := execEach(ctx, tx, `INSERT INTO professionals (id, user_id, name, city, latitude, longitude,
		is_active, verification_status, avg_rating, total_reviews, years_of_experience)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(ds.Professionals),
		func(i int) []interface{} {
			p := &ds.Professionals[i]
			lat, lon := coordinates(p.Location)
			return []interface{}{p.ID, p.UserID, p.Name, p.City, lat, lon, p.Active,
				string(p.Verification), p.AvgRating, p.TotalReviews, p.YearsExperience}
		})
	if err != nil {
		return err
	}

	type link struct{ pro, cat int64 }
	var links []link
	for i := range ds.Professionals {
		for _, c := range uniqueSorted(ds.Professionals[i].CategoryIDs) {
			links = append(links, link{ds.Professionals[i].ID, c})
		}
	}
	return execEach(ctx, tx, "INSERT INTO professional_categories (professional_id, category_id) VALUES (?, ?)",
		len(links),
		func(i int) []interface{} { return []interface{}{links[i].pro, links[i].cat} })
}

func insertServices(ctx context.Context, tx *sql.Tx, ds *catalog.Dataset) error {
	return execEach(ctx, tx, `INSERT INTO services (id, professional_id, category_id, title, description,
		pricing_type, price_per_unit, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		len(ds.Services),
		func(i int) []interface{} {
			s := &ds.Services[i]
			return []interface{}{s.ID, s.ProfessionalID, s.CategoryID, s.Title, s.Description,
				nullString(string(s.PricingType)), s.PricePerUnit.InexactFloat64(), s.Active}
		})
}

func insertBookings(ctx context.Context, tx *sql.Tx, ds *catalog.Dataset) error {
	return execEach(ctx, tx, `INSERT INTO bookings (id, customer_id, professional_id, service_id, category_id,
		status, city, scheduled_at, estimated_price, created_at, cancelled_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(ds.Bookings),
		func(i int) []interface{} {
			b := &ds.Bookings[i]
			var price interface{}
			if b.EstimatedPrice.Valid {
				price = b.EstimatedPrice.Decimal.InexactFloat64()
			}
			return []interface{}{b.ID, nullID(b.CustomerID), nullID(b.ProfessionalID), nullID(b.ServiceID),
				nullID(b.CategoryID), string(b.Status), b.City, b.ScheduledAt.UTC(), price,
				b.CreatedAt.UTC(), nullString(string(b.CancelledBy))}
		})
}

// RecordCounts returns the number of rows per marketplace table.
func (db *DB) RecordCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(marketplaceTables))
	for _, table := range marketplaceTables {
		var n int
		err := db.query(ctx, "count", table, "SELECT COUNT(*) FROM "+table, nil,
			func(rows *sql.Rows) error { return rows.Scan(&n) })
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

func coordinates(p *geo.Point) (interface{}, interface{}) {
	if p == nil {
		return nil, nil
	}
	return p.Lat, p.Lon
}

func nullID(id int64) interface{} {
	if id <= 0 {
		return nil
	}
	return id
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func uniqueSorted(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, id := range out {
		if i == 0 || id != out[n-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
