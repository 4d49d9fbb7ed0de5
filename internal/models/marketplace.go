// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/geo"
)

// VerificationStatus is the verification state of a professional profile.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// String implements fmt.Stringer.
func (v VerificationStatus) String() string { return string(v) }

// Valid reports whether v is a known verification state.
func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a booking. Transitions are owned by
// the booking service; this package only reads them.
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusAccepted   BookingStatus = "ACCEPTED"
	StatusRejected   BookingStatus = "REJECTED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// String implements fmt.Stringer.
func (s BookingStatus) String() string { return string(s) }

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Party identifies who cancelled a booking. The zero value means nobody did.
type Party string

const (
	PartyNone         Party = ""
	PartyCustomer     Party = "CUSTOMER"
	PartyProfessional Party = "PROFESSIONAL"
	PartyAdmin        Party = "ADMIN"
)

// String implements fmt.Stringer.
func (p Party) String() string { return string(p) }

// Valid reports whether p is a known party, including PartyNone.
func (p Party) Valid() bool {
	switch p {
	case PartyNone, PartyCustomer, PartyProfessional, PartyAdmin:
		return true
	}
	return false
}

// PricingType describes the unit a service price refers to.
type PricingType string

const (
	PricingHourly  PricingType = "HOURLY"
	PricingDaily   PricingType = "DAILY"
	PricingFixed   PricingType = "FIXED"
	PricingPerUnit PricingType = "PER_UNIT"
)

// Valid reports whether t is a known pricing type. Empty is accepted.
func (t PricingType) Valid() bool {
	switch t {
	case "", PricingHourly, PricingDaily, PricingFixed, PricingPerUnit:
		return true
	}
	return false
}

// Category is a service category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Customer is the read model of a customer profile.
type Customer struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"user_id"`
	Name     string     `json:"name,omitempty"`
	City     string     `json:"city,omitempty"`
	Location *geo.Point `json:"location,omitempty"`
}

// Professional is the read model of a professional profile.
// AvgRating is 0 when the professional has no approved reviews.
type Professional struct {
	ID              int64              `json:"id"`
	UserID          int64              `json:"user_id"`
	Name            string             `json:"name,omitempty"`
	City            string             `json:"city,omitempty"`
	Location        *geo.Point         `json:"location,omitempty"`
	Active          bool               `json:"is_active"`
	Verification    VerificationStatus `json:"verification_status"`
	AvgRating       float64            `json:"avg_rating"`
	TotalReviews    int                `json:"total_reviews"`
	YearsExperience int                `json:"years_of_experience"`
	CategoryIDs     []int64            `json:"category_ids"`
}

// Eligible reports whether the professional may appear in recommendations.
func (p *Professional) Eligible() bool {
	return p.Active && p.Verification == VerificationVerified
}

// HasRating reports whether the professional has a usable rating.
func (p *Professional) HasRating() bool {
	return p.AvgRating > 0
}

// OffersCategory reports whether categoryID is among the professional's categories.
func (p *Professional) OffersCategory(categoryID int64) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Service is the read model of a service listing.
type Service struct {
	ID             int64           `json:"id"`
	ProfessionalID int64           `json:"professional_id"`
	CategoryID     int64           `json:"category_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	PricingType    PricingType     `json:"pricing_type,omitempty"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	Active         bool            `json:"is_active"`
}

// Booking is the read model of a booking record.
type Booking struct {
	ID             int64               `json:"id"`
	CustomerID     int64               `json:"customer_id"`
	ProfessionalID int64               `json:"professional_id"`
	ServiceID      int64               `json:"service_id"`
	CategoryID     int64               `json:"category_id"`
	Status         BookingStatus       `json:"status"`
	City           string              `json:"city,omitempty"`
	ScheduledAt    time.Time           `json:"scheduled_at"`
	EstimatedPrice decimal.NullDecimal `json:"estimated_price"`
	CreatedAt      time.Time           `json:"created_at"`
	CancelledBy    Party               `json:"cancelled_by,omitempty"`
}

// References reports whether the booking carries its mandatory references.
func (b *Booking) References() bool {
	return b.CustomerID > 0 && b.ProfessionalID > 0 && b.ServiceID > 0
}
