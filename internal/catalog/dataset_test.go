// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/servicebridge/internal/catalog"
)

const sampleDataset = `{
  "categories": [{"id": 1, "name": "Plumbing"}],
  "customers": [{"id": 10, "user_id": 100, "city": "Kabul", "location": {"latitude": 34.55, "longitude": 69.2}}],
  "professionals": [{"id": 20, "user_id": 200, "is_active": true, "verification_status": "VERIFIED", "avg_rating": 4.5, "category_ids": [1]}],
  "services": [{"id": 30, "professional_id": 20, "category_id": 1, "title": "Pipe repair", "pricing_type": "FIXED", "price_per_unit": "500.00", "is_active": true}],
  "bookings": [{"id": 1, "customer_id": 10, "professional_id": 20, "service_id": 30, "category_id": 1, "status": "COMPLETED",
                "scheduled_at": "2026-03-01T10:00:00Z", "estimated_price": "480.50", "created_at": "2026-02-20T09:00:00Z"}]
}`

func TestDecodeDataset(t *testing.T) {
	t.Parallel()

	ds, err := catalog.DecodeDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("DecodeDataset() error = %v", err)
	}
	if len(ds.Bookings) != 1 || ds.Bookings[0].EstimatedPrice.Decimal.String() != "480.5" {
		t.Errorf("booking price = %+v", ds.Bookings)
	}
	if ds.Services[0].PricePerUnit.StringFixed(2) != "500.00" {
		t.Errorf("service price = %s", ds.Services[0].PricePerUnit)
	}
	if ds.Customers[0].Location == nil || ds.Customers[0].Location.Lat != 34.55 {
		t.Errorf("customer location = %+v", ds.Customers[0].Location)
	}
}

func TestDecodeDatasetRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		integrity bool
	}{
		{"malformed json", `{"bookings": [`, false},
		{"bad status", `{"bookings": [{"id": 1, "customer_id": 1, "professional_id": 1, "service_id": 1, "status": "DONE"}]}`, false},
		{"missing customer", `{"bookings": [{"id": 1, "professional_id": 1, "service_id": 1, "status": "PENDING"}]}`, true},
		{"bad verification", `{"professionals": [{"id": 1, "verification_status": "OK"}]}`, false},
		{"bad party", `{"bookings": [{"id": 1, "customer_id": 1, "professional_id": 1, "service_id": 1, "status": "CANCELLED", "cancelled_by": "BOT"}]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := catalog.DecodeDataset(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("DecodeDataset() expected error")
			}
			if errors.Is(err, catalog.ErrIntegrity) != tt.integrity {
				t.Errorf("errors.Is(ErrIntegrity) = %v, want %v (%v)", !tt.integrity, tt.integrity, err)
			}
		})
	}
}

func TestLoadDatasetFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o600); err != nil {
		t.Fatal(err)
	}
	ds, err := catalog.LoadDatasetFile(path)
	if err != nil {
		t.Fatalf("LoadDatasetFile() error = %v", err)
	}
	if len(ds.Professionals) != 1 {
		t.Errorf("professionals = %d, want 1", len(ds.Professionals))
	}

	if _, err := catalog.LoadDatasetFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadDatasetFile() on missing file expected error")
	}
}

func TestDatasetCounts(t *testing.T) {
	t.Parallel()

	ds, err := catalog.DecodeDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("DecodeDataset() error = %v", err)
	}
	want := map[string]int{
		"categories":              1,
		"customers":               1,
		"professionals":           1,
		"professional_categories": 1,
		"services":                1,
		"bookings":                1,
	}
	got := ds.Counts()
	for table, n := range want {
		if got[table] != n {
			t.Errorf("Counts()[%s] = %d, want %d", table, got[table], n)
		}
	}
}
