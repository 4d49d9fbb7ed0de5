// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

const (
	customerColumns = `id, COALESCE(user_id, 0), COALESCE(name, ''), COALESCE(city, ''), latitude, longitude`

	professionalColumns = `p.id, COALESCE(p.user_id, 0), COALESCE(p.name, ''), COALESCE(p.city, ''),
		p.latitude, p.longitude, p.is_active, p.verification_status, p.avg_rating,
		p.total_reviews, p.years_of_experience`

	serviceColumns = `s.id, s.professional_id, s.category_id, s.title, COALESCE(s.description, ''),
		COALESCE(s.pricing_type, ''), CAST(s.price_per_unit AS VARCHAR), s.is_active`

	bookingColumns = `b.id, COALESCE(b.customer_id, 0), COALESCE(b.professional_id, 0),
		COALESCE(b.service_id, 0), COALESCE(b.category_id, 0), b.status, COALESCE(b.city, ''),
		b.scheduled_at, CAST(b.estimated_price AS VARCHAR), b.created_at, COALESCE(b.cancelled_by, '')`

	eligibleProfessional = `p.is_active AND p.verification_status = 'VERIFIED'`
)

// query runs a SELECT, hands every row to scan, and records metrics.
func (db *DB) query(ctx context.Context, op, table, stmt string, args []interface{}, scan func(*sql.Rows) error) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery(op, table, time.Since(start), err)
		if isConnectionError(err) {
			logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("Database connection lost")
		}
	}()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		if err = scan(rows); err != nil {
			return fmt.Errorf("%s: scan: %w", op, err)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Customer implements catalog.Reader.
func (db *DB) Customer(ctx context.Context, id int64) (*models.Customer, error) {
	var out []models.Customer
	err := db.query(ctx, "get_customer", "customers",
		"SELECT "+customerColumns+" FROM customers WHERE id = ?", []interface{}{id},
		func(rows *sql.Rows) error {
			var c models.Customer
			var lat, lon sql.NullFloat64
			if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.City, &lat, &lon); err != nil {
				return err
			}
			c.Location = point(lat, lon)
			out = append(out, c)
			return nil
		})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("customer %d: %w", id, catalog.ErrNotFound)
	}
	return &out[0], nil
}

// Professional implements catalog.Reader.
func (db *DB) Professional(ctx context.Context, id int64) (*models.Professional, error) {
	out, err := db.Professionals(ctx, catalog.ProfessionalQuery{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("professional %d: %w", id, catalog.ErrNotFound)
	}
	return &out[0], nil
}

// Service implements catalog.Reader.
func (db *DB) Service(ctx context.Context, id int64) (*models.Service, error) {
	out, err := db.Services(ctx, catalog.ServiceQuery{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("service %d: %w", id, catalog.ErrNotFound)
	}
	return &out[0], nil
}

// Booking implements catalog.Reader.
func (db *DB) Booking(ctx context.Context, id int64) (*models.Booking, error) {
	wb := &whereBuilder{}
	wb.add("b.id = ?", id)
	out, err := db.selectBookings(ctx, "get_booking", wb)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("booking %d: %w", id, catalog.ErrNotFound)
	}
	return &out[0], nil
}

// Categories implements catalog.Reader.
func (db *DB) Categories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0)
	err := db.query(ctx, "list_categories", "categories",
		"SELECT id, name FROM categories ORDER BY id", nil,
		func(rows *sql.Rows) error {
			var c models.Category
			if err := rows.Scan(&c.ID, &c.Name); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Services implements catalog.Reader.
func (db *DB) Services(ctx context.Context, q catalog.ServiceQuery) ([]models.Service, error) {
	wb := &whereBuilder{}
	in(wb, "s.id", q.IDs)
	in(wb, "s.category_id", q.CategoryIDs)
	in(wb, "s.professional_id", q.ProfessionalIDs)
	if q.ActiveOnly {
		wb.add("s.is_active")
	}
	if q.EligibleOnly {
		wb.add("EXISTS (SELECT 1 FROM professionals p WHERE p.id = s.professional_id AND " + eligibleProfessional + ")")
	}
	where, args := wb.build()

	out := make([]models.Service, 0)
	err := db.query(ctx, "list_services", "services",
		"SELECT "+serviceColumns+" FROM services s"+where+" ORDER BY s.id", args,
		func(rows *sql.Rows) error {
			var s models.Service
			var pricing, price string
			if err := rows.Scan(&s.ID, &s.ProfessionalID, &s.CategoryID, &s.Title, &s.Description,
				&pricing, &price, &s.Active); err != nil {
				return err
			}
			d, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("service %d price %q: %w", s.ID, price, err)
			}
			s.PricePerUnit = d
			s.PricingType = models.PricingType(pricing)
			out = append(out, s)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Professionals implements catalog.Reader.
func (db *DB) Professionals(ctx context.Context, q catalog.ProfessionalQuery) ([]models.Professional, error) {
	wb := &whereBuilder{}
	in(wb, "p.id", q.IDs)
	if q.EligibleOnly {
		wb.add(eligibleProfessional)
	}
	if len(q.CategoryIDs) > 0 {
		placeholders, args := buildInClause(q.CategoryIDs)
		wb.add("EXISTS (SELECT 1 FROM professional_categories pc WHERE pc.professional_id = p.id AND pc.category_id IN ("+placeholders+"))", args...)
	}
	if q.Within != nil {
		clause, args := withinClause(q.Within)
		wb.add(clause, args...)
	}
	where, args := wb.build()

	out := make([]models.Professional, 0)
	err := db.query(ctx, "list_professionals", "professionals",
		"SELECT "+professionalColumns+" FROM professionals p"+where+" ORDER BY p.id", args,
		func(rows *sql.Rows) error {
			var p models.Professional
			var lat, lon sql.NullFloat64
			var verification string
			if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.City, &lat, &lon, &p.Active,
				&verification, &p.AvgRating, &p.TotalReviews, &p.YearsExperience); err != nil {
				return err
			}
			p.Location = point(lat, lon)
			p.Verification = models.VerificationStatus(verification)
			p.CategoryIDs = []int64{}
			out = append(out, p)
			return nil
		})
	if err != nil {
		return nil, err
	}
	if err := db.attachCategories(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachCategories fills CategoryIDs, ascending, for each professional.
func (db *DB) attachCategories(ctx context.Context, pros []models.Professional) error {
	if len(pros) == 0 {
		return nil
	}
	index := make(map[int64]int, len(pros))
	ids := make([]int64, len(pros))
	for i := range pros {
		index[pros[i].ID] = i
		ids[i] = pros[i].ID
	}
	placeholders, args := buildInClause(ids)

	return db.query(ctx, "list_professional_categories", "professional_categories",
		"SELECT professional_id, category_id FROM professional_categories WHERE professional_id IN ("+
			placeholders+") ORDER BY professional_id, category_id", args,
		func(rows *sql.Rows) error {
			var proID, catID int64
			if err := rows.Scan(&proID, &catID); err != nil {
				return err
			}
			if i, ok := index[proID]; ok {
				pros[i].CategoryIDs = append(pros[i].CategoryIDs, catID)
			}
			return nil
		})
}

// Bookings implements catalog.Reader.
//
//nolint:gocritic // hugeParam: BookingQuery is passed by value to match catalog.Reader
func (db *DB) Bookings(ctx context.Context, q catalog.BookingQuery) ([]models.Booking, error) {
	wb := &whereBuilder{}
	in(wb, "b.customer_id", q.CustomerIDs)
	if q.ExcludeCustomerID != 0 {
		wb.add("(b.customer_id IS NULL OR b.customer_id <> ?)", q.ExcludeCustomerID)
	}
	in(wb, "b.professional_id", q.ProfessionalIDs)
	in(wb, "b.service_id", q.ServiceIDs)
	in(wb, "b.category_id", q.CategoryIDs)
	notIn(wb, "b.category_id", q.ExcludeCategoryIDs)
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		in(wb, "b.status", statuses)
	}
	if !q.CreatedFrom.IsZero() {
		wb.add("b.created_at >= ?", q.CreatedFrom.UTC())
	}
	if !q.CreatedTo.IsZero() {
		wb.add("b.created_at < ?", q.CreatedTo.UTC())
	}
	if q.City != "" {
		wb.add("strpos(lower(b.city), ?) > 0", strings.ToLower(q.City))
	}
	return db.selectBookings(ctx, "list_bookings", wb)
}

func (db *DB) selectBookings(ctx context.Context, op string, wb *whereBuilder) ([]models.Booking, error) {
	where, args := wb.build()
	out := make([]models.Booking, 0)
	err := db.query(ctx, op, "bookings",
		"SELECT "+bookingColumns+" FROM bookings b"+where+" ORDER BY b.id", args,
		func(rows *sql.Rows) error {
			var b models.Booking
			var status, cancelledBy string
			var price sql.NullString
			if err := rows.Scan(&b.ID, &b.CustomerID, &b.ProfessionalID, &b.ServiceID, &b.CategoryID,
				&status, &b.City, &b.ScheduledAt, &price, &b.CreatedAt, &cancelledBy); err != nil {
				return err
			}
			if price.Valid {
				d, err := decimal.NewFromString(price.String)
				if err != nil {
					return fmt.Errorf("booking %d price %q: %w", b.ID, price.String, err)
				}
				b.EstimatedPrice = decimal.NewNullDecimal(d)
			}
			b.Status = models.BookingStatus(status)
			b.CancelledBy = models.Party(cancelledBy)
			b.ScheduledAt = b.ScheduledAt.UTC()
			b.CreatedAt = b.CreatedAt.UTC()
			out = append(out, b)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func point(lat, lon sql.NullFloat64) *geo.Point {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &geo.Point{Lat: lat.Float64, Lon: lon.Float64}
}
