// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package catalog defines the read-only boundary between the recommendation
// engine and the marketplace records it scores.
//
// The marketplace itself (booking state machine, payments, profile CRUD) is
// owned elsewhere. The engine sees it only through Reader, which is
// implemented by the DuckDB store in internal/database and by Memory for
// tests and file-backed deployments.
//
// All listings are returned in ascending id order so that downstream ranking
// is reproducible.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/models"
)

var (
	// ErrNotFound is returned by single-record lookups that miss.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity marks marketplace data that violates a required reference,
	// such as a booking without a customer. It is never recovered from.
	ErrIntegrity = errors.New("data integrity violation")
)

// Reader is the read access the engine needs to marketplace records.
type Reader interface {
	Customer(ctx context.Context, id int64) (*models.Customer, error)
	Professional(ctx context.Context, id int64) (*models.Professional, error)
	Service(ctx context.Context, id int64) (*models.Service, error)
	Booking(ctx context.Context, id int64) (*models.Booking, error)

	Categories(ctx context.Context) ([]models.Category, error)
	Services(ctx context.Context, q ServiceQuery) ([]models.Service, error)
	Professionals(ctx context.Context, q ProfessionalQuery) ([]models.Professional, error)
	Bookings(ctx context.Context, q BookingQuery) ([]models.Booking, error)
}

// ServiceQuery filters service listings. Zero values mean "no filter".
type ServiceQuery struct {
	IDs             []int64
	CategoryIDs     []int64
	ProfessionalIDs []int64
	// ActiveOnly keeps only active services.
	ActiveOnly bool
	// EligibleOnly keeps only services whose professional is active and verified.
	EligibleOnly bool
}

// ProfessionalQuery filters professional profiles.
type ProfessionalQuery struct {
	IDs []int64
	// CategoryIDs keeps professionals offering at least one of the categories.
	CategoryIDs []int64
	// EligibleOnly keeps only active, verified professionals.
	EligibleOnly bool
	// Within keeps only professionals with a location inside the box.
	Within *geo.Box
}

// BookingQuery filters booking records.
type BookingQuery struct {
	CustomerIDs        []int64
	ExcludeCustomerID  int64
	ProfessionalIDs    []int64
	ServiceIDs         []int64
	CategoryIDs        []int64
	ExcludeCategoryIDs []int64
	Statuses           []models.BookingStatus
	// CreatedFrom is inclusive, CreatedTo exclusive. Zero means unbounded.
	CreatedFrom time.Time
	CreatedTo   time.Time
	// City is a case-insensitive substring match on the booking city.
	City string
}

// CheckBooking returns an ErrIntegrity error when the booking lacks one of
// its mandatory references.
func CheckBooking(b *models.Booking) error {
	if b.References() {
		return nil
	}
	return fmt.Errorf("booking %d: missing customer, professional or service reference: %w", b.ID, ErrIntegrity)
}

// CheckBookings applies CheckBooking to every booking.
func CheckBookings(bookings []models.Booking) error {
	for i := range bookings {
		if err := CheckBooking(&bookings[i]); err != nil {
			return err
		}
	}
	return nil
}
