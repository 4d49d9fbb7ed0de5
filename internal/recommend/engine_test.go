// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/testinfra"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// fakeStrategy implements Strategy for testing.
type fakeStrategy struct {
	name   string
	scores ScoreMap
	err    error
	calls  atomic.Int32
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Score(ctx context.Context, req StrategyRequest) (ScoreMap, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make(ScoreMap, len(f.scores))
	for k, v := range f.scores {
		out[k] = v
	}
	return out, nil
}

func newTestEngine(t *testing.T, b *testinfra.Builder, strategies ...Strategy) *Engine {
	t.Helper()
	reader := b.Memory()
	e, err := NewEngine(DefaultConfig(), reader, history.NewAggregator(reader, history.Config{}), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetClock(func() time.Time { return testNow })
	for _, s := range strategies {
		e.RegisterStrategy(s)
	}
	return e
}

// marketplace has one customer and five eligible services in two categories.
func marketplace() *testinfra.Builder {
	return testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Category(2, "Electrical").
		Customer(10, nil).
		Customer(11, nil).
		Professional(testinfra.Pro(20, 4.5, 1, 2)).
		Professional(testinfra.Pro(21, 0, 1)).
		Service(30, 20, 1, "500").
		Service(31, 20, 2, "300").
		Service(32, 21, 1, "450").
		Service(33, 21, 1, "700").
		Service(34, 20, 2, "200")
}

func uniform(name string, ids ...int64) *fakeStrategy {
	scores := make(ScoreMap, len(ids))
	for _, id := range ids {
		scores[id] = 1.0
	}
	return &fakeStrategy{name: name, scores: scores}
}

func recIDs(recs []models.ServiceRecommendation) []int64 {
	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

func TestRecommendServicesMergeWeights(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, marketplace(),
		uniform(StrategyCollaborative, 30),
		uniform(StrategyContent, 30),
		uniform(StrategyLocation, 30),
		uniform(StrategyPopularity, 30),
	)

	recs, err := e.RecommendServices(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("RecommendServices() error = %v", err)
	}
	if len(recs) != 1 || recs[0].ID != 30 {
		t.Fatalf("RecommendServices() = %v", recIDs(recs))
	}
	if recs[0].Score != 1.0 {
		t.Errorf("merged score = %.17f, want exactly 1.0", recs[0].Score)
	}
	if len(recs[0].Scores) != 4 {
		t.Errorf("score breakdown = %v, want 4 strategies", recs[0].Scores)
	}
	if recs[0].CategoryName != "Plumbing" || recs[0].ProfessionalRating != 4.5 {
		t.Errorf("hydrated fields = %+v", recs[0])
	}
}

func TestRecommendServicesWeighting(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, marketplace(),
		&fakeStrategy{name: StrategyCollaborative, scores: ScoreMap{30: 0.5}},
		&fakeStrategy{name: StrategyContent, scores: ScoreMap{32: 1.0}},
		&fakeStrategy{name: StrategyLocation, scores: ScoreMap{30: 0.5, 33: 1.0}},
		&fakeStrategy{name: StrategyPopularity, scores: ScoreMap{34: 1.0}},
	)

	recs, err := e.RecommendServices(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("RecommendServices() error = %v", err)
	}

	want := []struct {
		id    int64
		score float64
	}{
		{32, 0.3},
		{30, 0.3},
		{33, 0.2},
		{34, 0.1},
	}
	if len(recs) != len(want) {
		t.Fatalf("RecommendServices() = %v", recIDs(recs))
	}
	// 30 and 32 tie at 0.3; ascending id puts 30 first.
	want[0], want[1] = want[1], want[0]
	for i, w := range want {
		if recs[i].ID != w.id || math.Abs(recs[i].Score-w.score) > 1e-9 {
			t.Errorf("rank %d = (%d, %v), want (%d, %v)", i, recs[i].ID, recs[i].Score, w.id, w.score)
		}
	}
}

func TestRecommendServicesExcludesBooked(t *testing.T) {
	t.Parallel()

	statuses := []models.BookingStatus{
		models.StatusPending, models.StatusAccepted, models.StatusRejected,
		models.StatusInProgress, models.StatusCompleted, models.StatusCancelled,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()
			b := marketplace().Book(10, 30, status)
			e := newTestEngine(t, b,
				uniform(StrategyCollaborative, 30, 31),
				uniform(StrategyPopularity, 30, 31),
			)

			recs, err := e.RecommendServices(context.Background(), 10, 10)
			if err != nil {
				t.Fatalf("RecommendServices() error = %v", err)
			}
			for _, r := range recs {
				if r.ID == 30 {
					t.Fatalf("booked service 30 (%s) recommended: %v", status, recIDs(recs))
				}
			}
			if len(recs) != 1 || recs[0].ID != 31 {
				t.Errorf("RecommendServices() = %v, want [31]", recIDs(recs))
			}
		})
	}
}

func TestRecommendServicesRefiltersAfterTruncation(t *testing.T) {
	t.Parallel()

	b := marketplace()
	inactive := models.Service{ID: 35, ProfessionalID: 20, CategoryID: 1, Title: "retired", Active: false}
	b.ServiceWith(inactive)
	pending := testinfra.Pro(22, 5, 1)
	pending.Verification = models.VerificationPending
	b.Professional(pending).Service(36, 22, 1, "100")

	e := newTestEngine(t, b,
		&fakeStrategy{name: StrategyCollaborative, scores: ScoreMap{35: 1.0, 36: 0.9, 33: 0.8, 30: 0.7, 31: 0.6}},
	)

	recs, err := e.RecommendServices(context.Background(), 10, 3)
	if err != nil {
		t.Fatalf("RecommendServices() error = %v", err)
	}
	// Truncation keeps 35, 36, 33; only 33 survives the final filter.
	if got := recIDs(recs); len(got) != 1 || got[0] != 33 {
		t.Errorf("RecommendServices() = %v, want [33]", got)
	}

	recs, err = e.RecommendServices(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("RecommendServices() error = %v", err)
	}
	want := []int64{33, 30, 31}
	got := recIDs(recs)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("RecommendServices() = %v, want %v in ranked order", got, want)
	}
}

func TestRecommendServicesStrategyFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"transient failure is skipped", errors.New("boom"), nil},
		{"integrity violation is fatal", fmt.Errorf("wrapped: %w", catalog.ErrIntegrity), catalog.ErrIntegrity},
		{"deadline is fatal", context.DeadlineExceeded, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, marketplace(),
				&fakeStrategy{name: StrategyCollaborative, err: tt.err},
				uniform(StrategyPopularity, 31),
			)

			recs, err := e.RecommendServices(context.Background(), 10, 10)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("RecommendServices() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecommendServices() error = %v", err)
			}
			if len(recs) != 1 || math.Abs(recs[0].Score-0.1) > 1e-9 {
				t.Errorf("RecommendServices() = %+v", recs)
			}
		})
	}
}

func TestRecommendServicesErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown customer", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, marketplace(), uniform(StrategyPopularity, 30))
		if _, err := e.RecommendServices(context.Background(), 999, 10); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("booking without references", func(t *testing.T) {
		t.Parallel()
		b := marketplace().RawBooking(models.Booking{ID: 50, CustomerID: 10, Status: models.StatusPending})
		e := newTestEngine(t, b, uniform(StrategyPopularity, 30))
		if _, err := e.RecommendServices(context.Background(), 10, 10); !errors.Is(err, catalog.ErrIntegrity) {
			t.Errorf("error = %v, want ErrIntegrity", err)
		}
	})

	t.Run("no strategies yields empty list", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, marketplace())
		recs, err := e.RecommendServices(context.Background(), 10, 10)
		if err != nil || recs == nil || len(recs) != 0 {
			t.Errorf("RecommendServices() = %v, %v; want empty non-nil list", recs, err)
		}
	})
}

func TestRecommendServicesRunsStrategiesOnce(t *testing.T) {
	t.Parallel()

	s := uniform(StrategyContent, 30)
	e := newTestEngine(t, marketplace(), s)
	if _, err := e.RecommendServices(context.Background(), 10, 0); err != nil {
		t.Fatal(err)
	}
	if s.calls.Load() != 1 {
		t.Errorf("strategy called %d times, want 1", s.calls.Load())
	}
	if names := e.Strategies(); len(names) != 1 || names[0] != StrategyContent {
		t.Errorf("Strategies() = %v", names)
	}
}

func TestRecommendProfessionals(t *testing.T) {
	t.Parallel()

	near := geo.Point{Lat: 34.5553, Lon: 69.2075}
	strong := testinfra.ProAt(20, 4.5, near, 1)
	strong.YearsExperience = 5
	strong.TotalReviews = 100

	weak := testinfra.Pro(21, 2.0, 2)
	weak.YearsExperience = 30
	weak.TotalReviews = 10

	inactive := testinfra.Pro(22, 5, 1)
	inactive.Active = false

	b := testinfra.NewBuilder(testNow).
		Category(1, "Plumbing").
		Category(2, "Electrical").
		Customer(10, &near).
		Professional(strong).
		Professional(weak).
		Professional(inactive).
		Service(30, 20, 1, "500").
		Service(31, 21, 2, "300").
		BookN(2, 10, 30, models.StatusCompleted).
		BookN(2, 10, 30, models.StatusCancelled)
	e := newTestEngine(t, b)

	t.Run("composite score", func(t *testing.T) {
		t.Parallel()
		recs, err := e.RecommendProfessionals(context.Background(), 10, 0, 10)
		if err != nil {
			t.Fatalf("RecommendProfessionals() error = %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d professionals, want 2 (inactive excluded)", len(recs))
		}
		// 0.3*0.9 + 0.15*0.5 + 0.15*1 + 0.25*0.5 + 0.15*1
		if recs[0].ID != 20 || math.Abs(recs[0].Score-0.77) > 1e-9 {
			t.Errorf("top = (%d, %v), want (20, 0.77)", recs[0].ID, recs[0].Score)
		}
		if recs[0].DistanceKm == nil || *recs[0].DistanceKm != 0 {
			t.Errorf("distance = %v, want 0", recs[0].DistanceKm)
		}
		// 0.3*0.4 + 0.15*1 + 0.15*0.2 + 0 + 0
		if recs[1].ID != 21 || math.Abs(recs[1].Score-0.3) > 1e-9 {
			t.Errorf("second = (%d, %v), want (21, 0.3)", recs[1].ID, recs[1].Score)
		}
		if recs[1].DistanceKm != nil || recs[1].ProximityScore != 0 {
			t.Errorf("professional without location has proximity %+v", recs[1])
		}
	})

	t.Run("category filter", func(t *testing.T) {
		t.Parallel()
		recs, err := e.RecommendProfessionals(context.Background(), 10, 2, 10)
		if err != nil || len(recs) != 1 || recs[0].ID != 21 {
			t.Errorf("RecommendProfessionals(category 2) = %+v, %v", recs, err)
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		t.Parallel()
		if _, err := e.RecommendProfessionals(context.Background(), 99, 0, 10); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Weights.Popularity = 0.5
	reader := catalog.NewMemory(nil)
	if _, err := NewEngine(cfg, reader, history.NewAggregator(reader, history.Config{}), zerolog.Nop()); err == nil {
		t.Error("NewEngine() accepted weights summing to 1.4")
	}
	if _, err := NewEngine(nil, nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine() accepted nil dependencies")
	}
}
