// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/testinfra"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newTestMemory() *catalog.Memory {
	inactive := testinfra.Pro(21, 4.0, 2)
	inactive.Active = false

	return testinfra.NewBuilder(testNow).
		Category(2, "Electrical").
		Category(1, "Plumbing").
		Customer(10, &geo.Point{Lat: 34.5553, Lon: 69.2075}).
		Customer(11, nil).
		Professional(testinfra.ProAt(20, 4.5, geo.Point{Lat: 34.56, Lon: 69.21}, 1)).
		Professional(inactive).
		Service(30, 20, 1, "500").
		Service(31, 21, 2, "300").
		Book(10, 30, models.StatusCompleted, testinfra.City("Kabul")).
		Book(11, 31, models.StatusCancelled, testinfra.City("Herat"), testinfra.CreatedAt(testNow.Add(-40*24*time.Hour))).
		Book(11, 30, models.StatusPending).
		Memory()
}

func TestMemoryLookups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestMemory()

	if c, err := m.Customer(ctx, 10); err != nil || c.Location == nil {
		t.Fatalf("Customer(10) = %+v, %v", c, err)
	}
	if _, err := m.Customer(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Customer(99) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Professional(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Professional(99) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Service(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Service(99) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Booking(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Booking(99) error = %v, want ErrNotFound", err)
	}

	cats, err := m.Categories(ctx)
	if err != nil || len(cats) != 2 || cats[0].ID != 1 {
		t.Errorf("Categories() = %+v, %v; want sorted by id", cats, err)
	}
}

func TestMemoryServices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestMemory()

	tests := []struct {
		name  string
		query catalog.ServiceQuery
		want  []int64
	}{
		{"all", catalog.ServiceQuery{}, []int64{30, 31}},
		{"eligible only", catalog.ServiceQuery{EligibleOnly: true}, []int64{30}},
		{"by category", catalog.ServiceQuery{CategoryIDs: []int64{2}}, []int64{31}},
		{"by owner", catalog.ServiceQuery{ProfessionalIDs: []int64{20}}, []int64{30}},
		{"by id", catalog.ServiceQuery{IDs: []int64{31, 30}}, []int64{30, 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.Services(ctx, tt.query)
			if err != nil {
				t.Fatalf("Services() error = %v", err)
			}
			assertIDs(t, serviceIDs(got), tt.want)
		})
	}
}

func TestMemoryProfessionals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestMemory()
	box := geo.BoundingBox(34.5553, 69.2075, 5)

	tests := []struct {
		name  string
		query catalog.ProfessionalQuery
		want  []int64
	}{
		{"all", catalog.ProfessionalQuery{}, []int64{20, 21}},
		{"eligible", catalog.ProfessionalQuery{EligibleOnly: true}, []int64{20}},
		{"category", catalog.ProfessionalQuery{CategoryIDs: []int64{2}}, []int64{21}},
		{"within box", catalog.ProfessionalQuery{Within: &box}, []int64{20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.Professionals(ctx, tt.query)
			if err != nil {
				t.Fatalf("Professionals() error = %v", err)
			}
			ids := make([]int64, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			assertIDs(t, ids, tt.want)
		})
	}
}

func TestMemoryBookings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestMemory()

	tests := []struct {
		name  string
		query catalog.BookingQuery
		want  []int64
	}{
		{"all", catalog.BookingQuery{}, []int64{1, 2, 3}},
		{"customer", catalog.BookingQuery{CustomerIDs: []int64{11}}, []int64{2, 3}},
		{"exclude customer", catalog.BookingQuery{ExcludeCustomerID: 11}, []int64{1}},
		{"status", catalog.BookingQuery{Statuses: []models.BookingStatus{models.StatusCancelled}}, []int64{2}},
		{"category", catalog.BookingQuery{CategoryIDs: []int64{1}}, []int64{1, 3}},
		{"exclude category", catalog.BookingQuery{ExcludeCategoryIDs: []int64{1}}, []int64{2}},
		{"created window", catalog.BookingQuery{CreatedFrom: testNow.Add(-30 * 24 * time.Hour), CreatedTo: testNow}, []int64{1, 3}},
		{"city substring", catalog.BookingQuery{City: "kab"}, []int64{1}},
		{"professional", catalog.BookingQuery{ProfessionalIDs: []int64{21}}, []int64{2}},
		{"service", catalog.BookingQuery{ServiceIDs: []int64{30}}, []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.Bookings(ctx, tt.query)
			if err != nil {
				t.Fatalf("Bookings() error = %v", err)
			}
			ids := make([]int64, len(got))
			for i, b := range got {
				ids[i] = b.ID
			}
			assertIDs(t, ids, tt.want)
		})
	}
}

func TestMemoryReplace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestMemory()

	m.Replace(&catalog.Dataset{})
	got, err := m.Services(ctx, catalog.ServiceQuery{})
	if err != nil || len(got) != 0 {
		t.Errorf("Services() after Replace = %v, %v", got, err)
	}
}

func TestMemoryImportDataset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestMemory()

	if err := m.ImportDataset(ctx, nil); err == nil {
		t.Error("ImportDataset(nil) should fail")
	}

	invalid := &catalog.Dataset{Bookings: []models.Booking{{ID: 1, Status: models.StatusPending}}}
	if err := m.ImportDataset(ctx, invalid); !errors.Is(err, catalog.ErrIntegrity) {
		t.Fatalf("ImportDataset(invalid) error = %v, want ErrIntegrity", err)
	}
	// A rejected dataset leaves the previous data in place.
	if got, _ := m.Services(ctx, catalog.ServiceQuery{}); len(got) == 0 {
		t.Error("rejected import replaced the data")
	}

	next := testinfra.NewBuilder(testNow).Category(9, "Roofing").Dataset()
	if err := m.ImportDataset(ctx, next); err != nil {
		t.Fatalf("ImportDataset() error = %v", err)
	}
	cats, _ := m.Categories(ctx)
	if len(cats) != 1 || cats[0].ID != 9 {
		t.Errorf("Categories() after import = %v", cats)
	}
	if err := m.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestMemoryCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestMemory().Bookings(ctx, catalog.BookingQuery{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Bookings() error = %v, want context.Canceled", err)
	}
}

func TestCheckBooking(t *testing.T) {
	t.Parallel()

	bad := models.Booking{ID: 5, ProfessionalID: 1, ServiceID: 1}
	if err := catalog.CheckBooking(&bad); !errors.Is(err, catalog.ErrIntegrity) {
		t.Errorf("CheckBooking() error = %v, want ErrIntegrity", err)
	}
	if err := catalog.CheckBookings([]models.Booking{{ID: 1, CustomerID: 1, ProfessionalID: 1, ServiceID: 1}}); err != nil {
		t.Errorf("CheckBookings() error = %v", err)
	}
}

func serviceIDs(services []models.Service) []int64 {
	ids := make([]int64, len(services))
	for i, s := range services {
		ids[i] = s.ID
	}
	return ids
}

func assertIDs(t *testing.T, got, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}
