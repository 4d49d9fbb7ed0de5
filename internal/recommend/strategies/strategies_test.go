// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package strategies_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/recommend"
	"github.com/tomtom215/servicebridge/internal/recommend/strategies"
	"github.com/tomtom215/servicebridge/internal/testinfra"
)

var (
	testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	kabul   = geo.Point{Lat: 34.5553, Lon: 69.2075}
	herat   = geo.Point{Lat: 34.3529, Lon: 62.2040}
)

func request(c *models.Customer) recommend.StrategyRequest {
	return recommend.StrategyRequest{Customer: c, Now: testNow}
}

func assertScores(t *testing.T, got, want recommend.ScoreMap, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("scores = %v, want %v", got, want)
	}
	for id, w := range want {
		g, ok := got[id]
		if !ok {
			t.Errorf("service %d missing from %v", id, got)
			continue
		}
		if math.Abs(g-w) > tol {
			t.Errorf("score[%d] = %v, want %v", id, g, w)
		}
	}
}

// plumbingHistory is a customer with five completed Plumbing bookings
// averaging 500 and two 550 candidates from the same 4.5-rated professional.
func plumbingHistory() *testinfra.Builder {
	b := testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Category(2, "Electrical").
		Customer(10, nil).
		Professional(testinfra.Pro(20, 4.5, 1, 2)).
		Professional(testinfra.Pro(21, 0, 1)).
		Service(30, 21, 1, "500").
		Service(40, 20, 1, "550").
		Service(41, 20, 2, "550")
	for _, price := range []string{"400", "450", "500", "550", "600"} {
		b.Book(10, 30, models.StatusCompleted, testinfra.Price(price))
	}
	return b
}

func TestContentScores(t *testing.T) {
	t.Parallel()

	b := plumbingHistory()
	reader := b.Memory()
	s := strategies.NewContent(reader, history.NewAggregator(reader, history.Config{}), recommend.DefaultConfig().Content)

	got, err := s.Score(context.Background(), request(&models.Customer{ID: 10}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	assertScores(t, got, recommend.ScoreMap{
		30: 0.8,  // 0.5 + 0.3*1 + no rating
		40: 0.92, // 0.5 + 0.3*(1 - 50/250) + 0.2*0.9
		41: 0.42, // 0.3*(1 - 50/250) + 0.2*0.9
	}, 1e-9)
	if got[40] <= got[41] {
		t.Errorf("Plumbing 550 (%v) should outscore Electrical 550 (%v)", got[40], got[41])
	}
}

func TestContentWithoutHistory(t *testing.T) {
	t.Parallel()

	b := plumbingHistory().Customer(11, nil).Book(11, 40, models.StatusPending)
	reader := b.Memory()
	s := strategies.NewContent(reader, history.NewAggregator(reader, history.Config{}), recommend.DefaultConfig().Content)

	got, err := s.Score(context.Background(), request(&models.Customer{ID: 11}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Score() = %v, want empty without completed bookings", got)
	}
}

func TestContentZeroTolerance(t *testing.T) {
	t.Parallel()

	reader := plumbingHistory().Memory()
	cfg := recommend.DefaultConfig().Content
	cfg.PriceTolerance = 0
	s := strategies.NewContent(reader, history.NewAggregator(reader, history.Config{}), cfg)

	got, err := s.Score(context.Background(), request(&models.Customer{ID: 10}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	assertScores(t, got, recommend.ScoreMap{30: 0.5, 40: 0.68, 41: 0.18}, 1e-9)
}

func TestCollaborativeScores(t *testing.T) {
	t.Parallel()

	b := testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Category(2, "Electrical").
		Category(3, "Cleaning").
		Customer(10, nil).
		Customer(11, nil).
		Customer(12, nil).
		Customer(13, nil).
		Professional(testinfra.Pro(20, 4, 1, 2, 3)).
		Service(30, 20, 1, "100").
		Service(31, 20, 2, "100").
		Service(32, 20, 3, "100").
		Service(33, 20, 1, "150").
		Book(10, 30, models.StatusCompleted).
		Book(11, 30, models.StatusCompleted).
		Book(12, 30, models.StatusCompleted).
		BookN(2, 11, 31, models.StatusCompleted).
		Book(11, 33, models.StatusCompleted).
		Book(12, 31, models.StatusCompleted).
		Book(12, 32, models.StatusCompleted).
		Book(12, 32, models.StatusCancelled).
		Book(13, 30, models.StatusCancelled).
		BookN(4, 13, 32, models.StatusCompleted)
	reader := b.Memory()

	tests := []struct {
		name   string
		cohort int
		want   recommend.ScoreMap
	}{
		{"full cohort", 100, recommend.ScoreMap{31: 1, 32: 1.0 / 3}},
		{"cohort capped to lowest id", 1, recommend.ScoreMap{31: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := recommend.DefaultConfig().Collaborative
			cfg.CohortSize = tt.cohort
			s := strategies.NewCollaborative(reader, cfg)

			got, err := s.Score(context.Background(), request(&models.Customer{ID: 10}))
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScores(t, got, tt.want, 1e-12)
		})
	}

	t.Run("no completed history", func(t *testing.T) {
		t.Parallel()
		s := strategies.NewCollaborative(reader, recommend.DefaultConfig().Collaborative)
		got, err := s.Score(context.Background(), request(&models.Customer{ID: 99}))
		if err != nil || len(got) != 0 {
			t.Errorf("Score() = %v, %v; want empty", got, err)
		}
	})
}

func TestCollaborativeIntegrity(t *testing.T) {
	t.Parallel()

	b := testinfra.NewBuilder(testNow).
		Customer(10, nil).
		RawBooking(models.Booking{ID: 1, CustomerID: 10, Status: models.StatusCompleted})
	s := strategies.NewCollaborative(b.Memory(), recommend.DefaultConfig().Collaborative)

	if _, err := s.Score(context.Background(), request(&models.Customer{ID: 10})); !errors.Is(err, catalog.ErrIntegrity) {
		t.Errorf("Score() error = %v, want ErrIntegrity", err)
	}
}

func TestLocationScores(t *testing.T) {
	t.Parallel()

	inactive := testinfra.ProAt(24, 5, kabul, 1)
	inactive.Active = false
	north := geo.Point{Lat: kabul.Lat + 0.1, Lon: kabul.Lon}

	b := testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Professional(testinfra.ProAt(20, 4, kabul, 1)).
		Professional(testinfra.ProAt(21, 4, north, 1)).
		Professional(testinfra.ProAt(22, 4, herat, 1)).
		Professional(testinfra.Pro(23, 4, 1)).
		Professional(inactive).
		Service(30, 20, 1, "100").
		Service(31, 21, 1, "100").
		Service(32, 22, 1, "100").
		Service(34, 23, 1, "100").
		Service(35, 24, 1, "100").
		ServiceWith(models.Service{ID: 33, ProfessionalID: 20, CategoryID: 1, Active: false})
	s := strategies.NewLocation(b.Memory(), 50)

	got, err := s.Score(context.Background(), request(&models.Customer{ID: 10, Location: &kabul}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	want := 1 - geo.Distance(kabul.Lat, kabul.Lon, north.Lat, north.Lon)/50
	assertScores(t, got, recommend.ScoreMap{30: 1, 31: want}, 1e-9)

	got, err = s.Score(context.Background(), request(&models.Customer{ID: 11}))
	if err != nil || len(got) != 0 {
		t.Errorf("Score() without location = %v, %v; want empty", got, err)
	}
}

func TestLocationScoresAcrossAntimeridian(t *testing.T) {
	t.Parallel()

	fijiEast := geo.Point{Lat: -16.5, Lon: 179.95}
	fijiWest := geo.Point{Lat: -16.5, Lon: -179.95}

	tests := []struct {
		name     string
		customer geo.Point
		pro      geo.Point
	}{
		{"customer east of the line", fijiEast, fijiWest},
		{"customer west of the line", fijiWest, fijiEast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := testinfra.NewBuilder(testNow).
				Category(1, "Plumbing").
				Professional(testinfra.ProAt(20, 4, tt.pro, 1)).
				Service(30, 20, 1, "100")
			s := strategies.NewLocation(b.Memory(), 50)

			got, err := s.Score(context.Background(), request(&models.Customer{ID: 10, Location: &tt.customer}))
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			want := 1 - geo.DistanceBetween(tt.customer, tt.pro)/50
			assertScores(t, got, recommend.ScoreMap{30: want}, 1e-9)
		})
	}
}

func TestPopularityScores(t *testing.T) {
	t.Parallel()

	old := testinfra.CreatedAt(testNow.AddDate(0, 0, -40))
	b := testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Customer(10, nil).
		Professional(testinfra.Pro(20, 4.5, 1)).
		Professional(testinfra.Pro(21, 0, 1)).
		Service(30, 20, 1, "100").
		Service(31, 21, 1, "100").
		Service(32, 21, 1, "100").
		Service(33, 21, 1, "100").
		BookN(2, 10, 30, models.StatusCompleted).
		Book(10, 30, models.StatusInProgress).
		Book(10, 31, models.StatusAccepted).
		BookN(3, 10, 32, models.StatusPending).
		BookN(5, 10, 33, models.StatusCompleted, old)
	s := strategies.NewPopularity(b.Memory(), recommend.DefaultConfig().Popularity)

	got, err := s.Score(context.Background(), request(&models.Customer{ID: 10}))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	assertScores(t, got, recommend.ScoreMap{
		30: 0.7 + 0.3*0.9,
		31: 0.7/3 + 0.3*0.6, // unrated professional falls back to 3 stars
	}, 1e-9)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	reader := catalog.NewMemory(nil)
	got := strategies.Defaults(reader, history.NewAggregator(reader, history.Config{}), recommend.DefaultConfig())

	want := []string{
		recommend.StrategyCollaborative,
		recommend.StrategyContent,
		recommend.StrategyLocation,
		recommend.StrategyPopularity,
	}
	if len(got) != len(want) {
		t.Fatalf("Defaults() returned %d strategies", len(got))
	}
	for i, s := range got {
		if s.Name() != want[i] {
			t.Errorf("Defaults()[%d] = %s, want %s", i, s.Name(), want[i])
		}
	}
}

func TestEngineWithDefaultStrategies(t *testing.T) {
	t.Parallel()

	reader := plumbingHistory().Memory()
	hist := history.NewAggregator(reader, history.Config{})
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), reader, hist, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetClock(func() time.Time { return testNow })
	strategies.RegisterDefaults(engine, reader, hist)

	recs, err := engine.RecommendServices(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("RecommendServices() error = %v", err)
	}
	if len(recs) != 2 || recs[0].ID != 40 || recs[1].ID != 41 {
		t.Fatalf("RecommendServices() = %+v, want [40 41]", recs)
	}
	if recs[0].Scores[recommend.StrategyContent] <= recs[1].Scores[recommend.StrategyContent] {
		t.Errorf("content breakdown not ordered: %v vs %v", recs[0].Scores, recs[1].Scores)
	}
}
