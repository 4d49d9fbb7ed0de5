// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package eventprocessor

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// EventType identifies what happened in the marketplace.
type EventType string

// Marketplace event types. The subject an event is published on is
// SubjectPrefix followed by its type, e.g. "marketplace.booking.created".
const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventReviewCreated    EventType = "review.created"
)

// SubjectPrefix is the subject namespace marketplace events live under.
const SubjectPrefix = "marketplace."

// knownTypes lists the event types the invalidator understands.
var knownTypes = map[EventType]bool{
	EventBookingCreated:   true,
	EventBookingUpdated:   true,
	EventBookingCancelled: true,
	EventBookingCompleted: true,
	EventReviewCreated:    true,
}

// IsBooking reports whether t is one of the booking lifecycle events.
func (t EventType) IsBooking() bool {
	return strings.HasPrefix(string(t), "booking.")
}

// MarketplaceEvent is the payload published for booking and review changes.
type MarketplaceEvent struct {
	// ID is unique per event and is used for log correlation.
	ID   string    `json:"event_id"`
	Type EventType `json:"event_type"`

	CustomerID     int64 `json:"customer_id,omitempty"`
	ProfessionalID int64 `json:"professional_id,omitempty"`
	BookingID      int64 `json:"booking_id,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// ValidationError describes the first invalid field of an event.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the fields the invalidator depends on.
// Booking events must name their customer and booking; review events must
// name the reviewed professional.
func (e *MarketplaceEvent) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.Type == "" {
		return &ValidationError{Field: "event_type", Message: "required"}
	}
	if !knownTypes[e.Type] {
		return &ValidationError{Field: "event_type", Message: fmt.Sprintf("unknown type %q", e.Type)}
	}
	if e.CustomerID < 0 || e.ProfessionalID < 0 || e.BookingID < 0 {
		return &ValidationError{Field: "id", Message: "must not be negative"}
	}
	if e.Type.IsBooking() {
		if e.CustomerID == 0 {
			return &ValidationError{Field: "customer_id", Message: "required"}
		}
		if e.BookingID == 0 {
			return &ValidationError{Field: "booking_id", Message: "required"}
		}
	}
	if e.Type == EventReviewCreated && e.ProfessionalID == 0 {
		return &ValidationError{Field: "professional_id", Message: "required"}
	}
	return nil
}

// Subject returns the NATS subject for this event.
func (e *MarketplaceEvent) Subject() string {
	return SubjectPrefix + string(e.Type)
}

// ParseEvent decodes and validates a JSON payload. Both failures wrap
// ErrMalformedEvent.
func ParseEvent(data []byte) (*MarketplaceEvent, error) {
	var event MarketplaceEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return &event, nil
}

// MarshalEvent encodes an event for publishing.
func MarshalEvent(e *MarketplaceEvent) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}
