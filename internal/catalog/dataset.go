// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/servicebridge/internal/models"
)

// Dataset is a full export of the marketplace records the engine reads.
// It is the format of snapshot files and of test fixtures.
type Dataset struct {
	Categories    []models.Category     `json:"categories"`
	Customers     []models.Customer     `json:"customers"`
	Professionals []models.Professional `json:"professionals"`
	Services      []models.Service      `json:"services"`
	Bookings      []models.Booking      `json:"bookings"`
}

// Validate checks enum values and the references every booking must carry.
func (d *Dataset) Validate() error {
	for i := range d.Professionals {
		p := &d.Professionals[i]
		if !p.Verification.Valid() {
			return fmt.Errorf("professional %d: invalid verification status %q", p.ID, p.Verification)
		}
	}
	for i := range d.Services {
		s := &d.Services[i]
		if !s.PricingType.Valid() {
			return fmt.Errorf("service %d: invalid pricing type %q", s.ID, s.PricingType)
		}
	}
	for i := range d.Bookings {
		b := &d.Bookings[i]
		if err := CheckBooking(b); err != nil {
			return err
		}
		if !b.Status.Valid() {
			return fmt.Errorf("booking %d: invalid status %q", b.ID, b.Status)
		}
		if !b.CancelledBy.Valid() {
			return fmt.Errorf("booking %d: invalid cancelling party %q", b.ID, b.CancelledBy)
		}
	}
	return nil
}

// Counts returns the number of records per table name.
func (d *Dataset) Counts() map[string]int {
	links := 0
	for i := range d.Professionals {
		links += len(d.Professionals[i].CategoryIDs)
	}
	return map[string]int{
		"categories":              len(d.Categories),
		"customers":               len(d.Customers),
		"professionals":           len(d.Professionals),
		"professional_categories": links,
		"services":                len(d.Services),
		"bookings":                len(d.Bookings),
	}
}

// DecodeDataset reads a JSON dataset and validates it.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}
	return &ds, nil
}

// LoadDatasetFile reads a JSON dataset from path.
func LoadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeDataset(f)
}
