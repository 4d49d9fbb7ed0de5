// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package history

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/testinfra"
)

// 2026-03-02 is a Monday.
var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func baseBuilder() *testinfra.Builder {
	return testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Category(2, "Electrical").
		Customer(10, nil).
		Customer(11, nil).
		Professional(testinfra.Pro(20, 4.5, 1)).
		Professional(testinfra.Pro(21, 3.0, 2)).
		Service(30, 20, 1, "500").
		Service(31, 21, 2, "300")
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCustomerCancellationRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(b *testinfra.Builder)
		want  float64
	}{
		{
			name:  "no bookings uses prior",
			build: func(b *testinfra.Builder) {},
			want:  0.2,
		},
		{
			name: "single cancelled booking uses prior",
			build: func(b *testinfra.Builder) {
				b.Book(10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyCustomer))
			},
			want: 0.2,
		},
		{
			name: "two bookings both cancelled still uses prior",
			build: func(b *testinfra.Builder) {
				b.BookN(2, 10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyCustomer))
			},
			want: 0.2,
		},
		{
			name: "only customer cancellations count",
			build: func(b *testinfra.Builder) {
				b.Book(10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyCustomer)).
					Book(10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyProfessional)).
					Book(10, 31, models.StatusCompleted).
					Book(10, 31, models.StatusPending)
			},
			want: 0.25,
		},
		{
			name: "other customers ignored",
			build: func(b *testinfra.Builder) {
				b.BookN(3, 10, 30, models.StatusCompleted).
					BookN(3, 11, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyCustomer))
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := baseBuilder()
			tt.build(b)
			agg := NewAggregator(b.Memory(), Config{})

			got, err := agg.CustomerCancellationRate(context.Background(), 10)
			if err != nil {
				t.Fatalf("CustomerCancellationRate() error = %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("CustomerCancellationRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfessionalIssueRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(b *testinfra.Builder)
		want  float64
	}{
		{
			name: "below five bookings uses prior",
			build: func(b *testinfra.Builder) {
				b.BookN(4, 10, 30, models.StatusRejected)
			},
			want: 0.15,
		},
		{
			name: "rejections and professional cancellations",
			build: func(b *testinfra.Builder) {
				b.Book(10, 30, models.StatusRejected).
					Book(10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyProfessional)).
					Book(10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyCustomer)).
					Book(10, 30, models.StatusCompleted).
					Book(11, 30, models.StatusAccepted)
			},
			want: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := baseBuilder()
			tt.build(b)
			agg := NewAggregator(b.Memory(), Config{})

			got, err := agg.ProfessionalIssueRate(context.Background(), 20)
			if err != nil {
				t.Fatalf("ProfessionalIssueRate() error = %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("ProfessionalIssueRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryCancellationRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cancelled int
		completed int
		want      float64
	}{
		{"nine bookings uses prior", 3, 6, 0.15},
		{"ten bookings", 3, 7, 0.3},
		{"no cancellations", 0, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := baseBuilder().
				BookN(tt.cancelled, 10, 30, models.StatusCancelled, testinfra.CancelledBy(models.PartyAdmin)).
				BookN(tt.completed, 11, 30, models.StatusCompleted).
				BookN(4, 11, 31, models.StatusCancelled)
			agg := NewAggregator(b.Memory(), Config{})

			got, err := agg.CategoryCancellationRate(context.Background(), 1)
			if err != nil {
				t.Fatalf("CategoryCancellationRate() error = %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("CategoryCancellationRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFirstTimePairing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	b := baseBuilder().
		Book(10, 30, models.StatusCompleted).
		Book(11, 30, models.StatusPending).
		Book(11, 30, models.StatusCancelled)
	agg := NewAggregator(b.Memory(), Config{})

	tests := []struct {
		name     string
		customer int64
		pro      int64
		want     bool
	}{
		{"completed pair", 10, 20, false},
		{"only non-completed", 11, 20, true},
		{"never booked", 10, 21, true},
	}

	for _, tt := range tests {
		got, err := agg.IsFirstTimePairing(ctx, tt.customer, tt.pro)
		if err != nil {
			t.Fatalf("%s: IsFirstTimePairing() error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: IsFirstTimePairing() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCustomerAveragePrice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	b := baseBuilder().
		Book(10, 30, models.StatusCompleted, testinfra.Price("400")).
		Book(10, 30, models.StatusCompleted, testinfra.Price("600")).
		Book(10, 30, models.StatusCompleted, testinfra.Price("")).
		Book(10, 30, models.StatusCancelled, testinfra.Price("5000")).
		Book(11, 31, models.StatusCancelled)
	agg := NewAggregator(b.Memory(), Config{})

	avg, ok, err := agg.CustomerAveragePrice(ctx, 10)
	if err != nil || !ok {
		t.Fatalf("CustomerAveragePrice() = %v, %v, %v", avg, ok, err)
	}
	if avg.StringFixed(2) != "500.00" {
		t.Errorf("CustomerAveragePrice() = %s, want 500.00", avg)
	}

	_, ok, err = agg.CustomerAveragePrice(ctx, 11)
	if err != nil || ok {
		t.Errorf("CustomerAveragePrice(no completed) ok = %v, err = %v", ok, err)
	}
}

func TestWeeklyCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	day := 24 * time.Hour
	monday := func(weeksAgo int) time.Time {
		return testNow.Add(-time.Duration(7*weeksAgo) * day).Add(-2 * time.Hour)
	}

	b := baseBuilder().
		Book(10, 30, models.StatusCompleted, testinfra.CreatedAt(monday(1)), testinfra.City("Kabul")).
		Book(10, 30, models.StatusCompleted, testinfra.CreatedAt(monday(1)), testinfra.City("Herat")).
		Book(10, 31, models.StatusCompleted, testinfra.CreatedAt(monday(1)), testinfra.City("Kabul")).
		Book(10, 30, models.StatusCancelled, testinfra.CreatedAt(monday(2))).
		Book(10, 30, models.StatusCompleted, testinfra.CreatedAt(monday(12))).
		Book(10, 30, models.StatusCompleted, testinfra.CreatedAt(monday(13))).
		Book(10, 30, models.StatusCompleted, testinfra.CreatedAt(testNow)).
		Book(10, 30, models.StatusCompleted, testinfra.CreatedAt(monday(1).Add(day)))
	agg := NewAggregator(b.Memory(), Config{})

	tests := []struct {
		name    string
		weekday time.Weekday
		filter  Filter
		want    map[int]int
	}{
		{
			name:    "monday unfiltered",
			weekday: time.Monday,
			want:    map[int]int{0: 3, 1: 1, 11: 1},
		},
		{
			name:    "category filter",
			weekday: time.Monday,
			filter:  Filter{CategoryID: 2},
			want:    map[int]int{0: 1},
		},
		{
			name:    "city filter",
			weekday: time.Monday,
			filter:  Filter{City: "kabul"},
			want:    map[int]int{0: 2},
		},
		{
			name:    "tuesday",
			weekday: time.Tuesday,
			want:    map[int]int{0: 1},
		},
		{
			name:    "no bookings",
			weekday: time.Sunday,
			want:    map[int]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			counts, err := agg.WeeklyCounts(ctx, tt.weekday, tt.filter, testNow)
			if err != nil {
				t.Fatalf("WeeklyCounts() error = %v", err)
			}
			if len(counts) != 12 {
				t.Fatalf("len(counts) = %d, want 12", len(counts))
			}
			for week, c := range counts {
				if c != tt.want[week] {
					t.Errorf("week %d = %d, want %d (all %v)", week, c, tt.want[week], counts)
				}
			}
		})
	}
}

func TestHourlyCounts(t *testing.T) {
	t.Parallel()

	at := func(h, m int) testinfra.BookingOption {
		return testinfra.ScheduledAt(time.Date(2026, 2, 20, h, m, 0, 0, time.UTC))
	}
	b := baseBuilder().
		Book(10, 30, models.StatusCompleted, at(9, 0)).
		Book(10, 30, models.StatusCompleted, at(9, 45)).
		Book(10, 31, models.StatusCompleted, at(14, 0)).
		Book(10, 31, models.StatusCompleted, at(14, 0), testinfra.CreatedAt(testNow.AddDate(0, -6, 0)))
	agg := NewAggregator(b.Memory(), Config{})

	counts, err := agg.HourlyCounts(context.Background(), Filter{}, testNow)
	if err != nil {
		t.Fatalf("HourlyCounts() error = %v", err)
	}
	if counts[9] != 2 || counts[14] != 1 {
		t.Errorf("HourlyCounts() = %v", counts)
	}
}

func TestIntegrityViolation(t *testing.T) {
	t.Parallel()

	b := baseBuilder().RawBooking(models.Booking{ID: 99, ProfessionalID: 20, ServiceID: 30, CategoryID: 1, Status: models.StatusCancelled})
	agg := NewAggregator(b.Memory(), Config{})

	if _, err := agg.CategoryCancellationRate(context.Background(), 1); !errors.Is(err, catalog.ErrIntegrity) {
		t.Errorf("CategoryCancellationRate() error = %v, want ErrIntegrity", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	bad := DefaultConfig()
	bad.CustomerPrior = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for prior > 1")
	}

	bad = DefaultConfig()
	bad.LookbackWeeks = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero lookback")
	}
}

func TestCompletionRates(t *testing.T) {
	t.Parallel()

	b := baseBuilder().
		Book(10, 30, models.StatusCompleted).
		Book(10, 31, models.StatusCompleted).
		Book(11, 31, models.StatusCancelled).
		Book(11, 31, models.StatusRejected).
		Book(11, 31, models.StatusCompleted)
	agg := NewAggregator(b.Memory(), Config{})

	rates, err := agg.CompletionRates(context.Background(), []int64{20, 21, 22})
	if err != nil {
		t.Fatalf("CompletionRates() error = %v", err)
	}
	want := map[int64]float64{20: 1, 21: 0.5, 22: 0}
	for id, w := range want {
		if got, ok := rates[id]; !ok || !approx(got, w) {
			t.Errorf("rates[%d] = %v (present %v), want %v", id, got, ok, w)
		}
	}

	empty, err := agg.CompletionRates(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("CompletionRates(nil) = %v, %v", empty, err)
	}
}
