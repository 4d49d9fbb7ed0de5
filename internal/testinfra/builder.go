// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package testinfra

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/models"
)

// Builder accumulates a dataset.
type Builder struct {
	now         time.Time
	ds          catalog.Dataset
	services    map[int64]models.Service
	nextBooking int64
}

// NewBuilder returns an empty Builder anchored at now.
func NewBuilder(now time.Time) *Builder {
	return &Builder{
		now:         now,
		services:    make(map[int64]models.Service),
		nextBooking: 1,
	}
}

// Now returns the anchor time.
func (b *Builder) Now() time.Time { return b.now }

// Category adds a category.
func (b *Builder) Category(id int64, name string) *Builder {
	b.ds.Categories = append(b.ds.Categories, models.Category{ID: id, Name: name})
	return b
}

// Customer adds a customer with an optional location.
func (b *Builder) Customer(id int64, loc *geo.Point) *Builder {
	b.ds.Customers = append(b.ds.Customers, models.Customer{ID: id, UserID: id + 1000, Location: loc})
	return b
}

// Professional adds a professional profile.
func (b *Builder) Professional(p models.Professional) *Builder {
	b.ds.Professionals = append(b.ds.Professionals, p)
	return b
}

// Service adds an active service with the given decimal price.
func (b *Builder) Service(id, professionalID, categoryID int64, price string) *Builder {
	return b.ServiceWith(models.Service{
		ID:             id,
		ProfessionalID: professionalID,
		CategoryID:     categoryID,
		Title:          "service",
		PricingType:    models.PricingFixed,
		PricePerUnit:   decimal.RequireFromString(price),
		Active:         true,
	})
}

// ServiceWith adds a service as given.
func (b *Builder) ServiceWith(s models.Service) *Builder {
	b.services[s.ID] = s
	b.ds.Services = append(b.ds.Services, s)
	return b
}

// BookingOption customizes a booking added by Book.
type BookingOption func(*models.Booking)

// CreatedAt sets the creation time.
func CreatedAt(t time.Time) BookingOption {
	return func(bk *models.Booking) { bk.CreatedAt = t }
}

// ScheduledAt sets the scheduled time.
func ScheduledAt(t time.Time) BookingOption {
	return func(bk *models.Booking) { bk.ScheduledAt = t }
}

// Price sets the estimated price. An empty string clears it.
func Price(p string) BookingOption {
	return func(bk *models.Booking) {
		if p == "" {
			bk.EstimatedPrice = decimal.NullDecimal{}
			return
		}
		bk.EstimatedPrice = decimal.NewNullDecimal(decimal.RequireFromString(p))
	}
}

// CancelledBy sets the cancelling party.
func CancelledBy(p models.Party) BookingOption {
	return func(bk *models.Booking) { bk.CancelledBy = p }
}

// City sets the booking city.
func City(c string) BookingOption {
	return func(bk *models.Booking) { bk.City = c }
}

// BookingID forces the booking id.
func BookingID(id int64) BookingOption {
	return func(bk *models.Booking) { bk.ID = id }
}

// Book adds a booking of serviceID by customerID. The professional and
// category are taken from the service, which must have been added first.
func (b *Builder) Book(customerID, serviceID int64, status models.BookingStatus, opts ...BookingOption) *Builder {
	svc := b.services[serviceID]
	bk := models.Booking{
		ID:             b.nextBooking,
		CustomerID:     customerID,
		ProfessionalID: svc.ProfessionalID,
		ServiceID:      serviceID,
		CategoryID:     svc.CategoryID,
		Status:         status,
		ScheduledAt:    b.now.Add(7 * 24 * time.Hour),
		EstimatedPrice: decimal.NewNullDecimal(svc.PricePerUnit),
		CreatedAt:      b.now.Add(-24 * time.Hour),
	}
	for _, opt := range opts {
		opt(&bk)
	}
	if bk.ID >= b.nextBooking {
		b.nextBooking = bk.ID + 1
	}
	b.ds.Bookings = append(b.ds.Bookings, bk)
	return b
}

// BookN adds n identical bookings.
func (b *Builder) BookN(n int, customerID, serviceID int64, status models.BookingStatus, opts ...BookingOption) *Builder {
	for i := 0; i < n; i++ {
		b.Book(customerID, serviceID, status, opts...)
	}
	return b
}

// RawBooking appends a booking without filling any defaults.
func (b *Builder) RawBooking(bk models.Booking) *Builder {
	if bk.ID >= b.nextBooking {
		b.nextBooking = bk.ID + 1
	}
	b.ds.Bookings = append(b.ds.Bookings, bk)
	return b
}

// Dataset returns the accumulated dataset.
func (b *Builder) Dataset() *catalog.Dataset {
	ds := b.ds
	return &ds
}

// Memory returns a catalog.Memory reader over the dataset.
func (b *Builder) Memory() *catalog.Memory {
	return catalog.NewMemory(b.Dataset())
}

// Pro returns an active, verified professional.
func Pro(id int64, rating float64, categoryIDs ...int64) models.Professional {
	return models.Professional{
		ID:           id,
		UserID:       id + 2000,
		Name:         "pro",
		Active:       true,
		Verification: models.VerificationVerified,
		AvgRating:    rating,
		CategoryIDs:  categoryIDs,
	}
}

// ProAt returns Pro with a location.
func ProAt(id int64, rating float64, loc geo.Point, categoryIDs ...int64) models.Professional {
	p := Pro(id, rating, categoryIDs...)
	p.Location = &loc
	return p
}
