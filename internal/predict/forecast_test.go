// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package predict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/testinfra"
)

func newForecaster(t *testing.T, hist history.Provider) *Forecaster {
	t.Helper()
	f, err := NewForecaster(nil, hist, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewForecaster() error = %v", err)
	}
	f.SetClock(func() time.Time { return testNow })
	return f
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func concat(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestForecastHorizon(t *testing.T) {
	t.Parallel()

	hist := &fakeHistory{}
	f := newForecaster(t, hist)

	points, err := f.Forecast(context.Background(), ForecastRequest{})
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}

	wantDays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, p := range points {
		want := testNow.AddDate(0, 0, i).Format("2006-01-02")
		if p.Date != want {
			t.Errorf("point %d date = %s, want %s", i, p.Date, want)
		}
		if p.Weekday != wantDays[i] {
			t.Errorf("point %d weekday = %s, want %s", i, p.Weekday, wantDays[i])
		}
		if p.PredictedCount != 0 || p.Confidence != models.ConfidenceLow || p.Trend != models.TrendStable {
			t.Errorf("empty history point = %+v", p)
		}
	}

	if got := f.Horizon(0); got != 7 {
		t.Errorf("Horizon(0) = %d, want 7", got)
	}
	if got := f.Horizon(365); got != 90 {
		t.Errorf("Horizon(365) = %d, want 90", got)
	}
}

func TestForecastPoints(t *testing.T) {
	t.Parallel()

	hist := &fakeHistory{weekly: map[time.Weekday][]int{
		time.Monday:    concat(repeat(5, 4), repeat(3, 4), repeat(1, 4)),
		time.Wednesday: concat(repeat(0, 8), repeat(2, 4)),
		time.Thursday:  concat([]int{1}, repeat(0, 11)),
		time.Friday:    repeat(6, 12),
		time.Saturday:  concat(repeat(2, 11), []int{0}),
	}}
	f := newForecaster(t, hist)

	points, err := f.Forecast(context.Background(), ForecastRequest{DaysAhead: 14})
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 14 {
		t.Fatalf("got %d points, want 14", len(points))
	}

	tests := []struct {
		index      int
		predicted  float64
		trend      models.Trend
		confidence models.Confidence
		total      int
	}{
		{0, 3.0, models.TrendIncreasing, models.ConfidenceMedium, 36}, // Monday
		{1, 0, models.TrendStable, models.ConfidenceLow, 0},           // Tuesday
		{2, 0.7, models.TrendDecreasing, models.ConfidenceLow, 8},     // Wednesday
		{3, 0.1, models.TrendIncreasing, models.ConfidenceLow, 1},     // Thursday from an empty baseline
		{4, 6.0, models.TrendStable, models.ConfidenceHigh, 72},       // Friday
		{5, 1.8, models.TrendIncreasing, models.ConfidenceMedium, 22}, // Saturday
		{7, 3.0, models.TrendIncreasing, models.ConfidenceMedium, 36}, // next Monday
	}
	for _, tt := range tests {
		p := points[tt.index]
		if p.PredictedCount != tt.predicted || p.Trend != tt.trend || p.Confidence != tt.confidence || p.SampleTotal != tt.total {
			t.Errorf("point %d (%s) = %+v, want %v/%s/%s/%d", tt.index, p.Weekday, p, tt.predicted, tt.trend, tt.confidence, tt.total)
		}
	}

	if hist.weeklyCalls != 7 {
		t.Errorf("WeeklyCounts called %d times, want once per weekday", hist.weeklyCalls)
	}
}

func TestForecastError(t *testing.T) {
	t.Parallel()

	boom := errors.New("store unavailable")
	if _, err := newForecaster(t, &fakeHistory{err: boom}).Forecast(context.Background(), ForecastRequest{}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestForecastWithAggregator(t *testing.T) {
	t.Parallel()

	lastMonday := testinfra.CreatedAt(testNow.AddDate(0, 0, -7))
	b := testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Category(2, "Electrical").
		Customer(10, nil).
		Professional(testinfra.Pro(20, 4, 1, 2)).
		Service(30, 20, 1, "500").
		Service(31, 20, 2, "500").
		BookN(6, 10, 30, models.StatusCompleted, lastMonday, testinfra.City("Kabul")).
		BookN(4, 10, 31, models.StatusCompleted, lastMonday, testinfra.City("Herat"))
	reader := b.Memory()
	f := newForecaster(t, history.NewAggregator(reader, history.Config{}))

	tests := []struct {
		name string
		req  ForecastRequest
		want float64
	}{
		{"all", ForecastRequest{DaysAhead: 1}, 0.8},
		{"category", ForecastRequest{DaysAhead: 1, CategoryID: 1}, 0.5},
		{"city substring", ForecastRequest{DaysAhead: 1, City: "her"}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			points, err := f.Forecast(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Forecast() error = %v", err)
			}
			if len(points) != 1 || points[0].Weekday != "Monday" {
				t.Fatalf("Forecast() = %+v", points)
			}
			if points[0].PredictedCount != tt.want || points[0].Trend != models.TrendIncreasing {
				t.Errorf("Forecast() = %+v, want predicted %v and INCREASING", points[0], tt.want)
			}
		})
	}
}

func TestPeakHours(t *testing.T) {
	t.Parallel()

	var hourly [24]int
	hourly[3] = 1
	hourly[9] = 10
	hourly[14] = 10
	hourly[18] = 5
	f := newForecaster(t, &fakeHistory{hourly: hourly})

	got, err := f.PeakHours(context.Background(), history.Filter{}, 3)
	if err != nil {
		t.Fatalf("PeakHours() error = %v", err)
	}
	want := []models.PeakHour{
		{Hour: 9, Bookings: 10, Share: 0.385},
		{Hour: 14, Bookings: 10, Share: 0.385},
		{Hour: 18, Bookings: 5, Share: 0.192},
	}
	if len(got) != len(want) {
		t.Fatalf("PeakHours() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PeakHours()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	got, err = f.PeakHours(context.Background(), history.Filter{}, 0)
	if err != nil || len(got) != 4 {
		t.Errorf("PeakHours(default limit) = %+v, %v", got, err)
	}

	empty, err := newForecaster(t, &fakeHistory{}).PeakHours(context.Background(), history.Filter{}, 5)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("PeakHours() without bookings = %v, %v; want empty list", empty, err)
	}
}
