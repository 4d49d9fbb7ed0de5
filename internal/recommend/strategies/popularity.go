// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package strategies

import (
	"context"
	"fmt"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/recommend"
)

var trendingStatuses = []models.BookingStatus{
	models.StatusCompleted,
	models.StatusAccepted,
	models.StatusInProgress,
}

// Popularity scores the most booked services of the recent window:
//
//	CountWeight * count/max_count + RatingWeight * rating/5
//
// where rating falls back to FallbackRating when the professional has none.
type Popularity struct {
	reader catalog.Reader
	cfg    recommend.PopularityConfig
}

// NewPopularity creates the popularity strategy.
func NewPopularity(reader catalog.Reader, cfg recommend.PopularityConfig) *Popularity {
	return &Popularity{reader: reader, cfg: cfg}
}

// Name implements recommend.Strategy.
func (p *Popularity) Name() string { return recommend.StrategyPopularity }

// Score implements recommend.Strategy.
func (p *Popularity) Score(ctx context.Context, req recommend.StrategyRequest) (recommend.ScoreMap, error) {
	recent, err := loadBookings(ctx, p.reader, catalog.BookingQuery{
		CreatedFrom: req.Now.Add(-p.cfg.Window),
		Statuses:    trendingStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	counts := make(map[int64]int)
	for i := range recent {
		counts[recent[i].ServiceID]++
	}
	top := recommend.TopCounts(counts, p.cfg.TopServices)
	if len(top) == 0 {
		return recommend.ScoreMap{}, nil
	}

	ids := make([]int64, len(top))
	for i, c := range top {
		ids[i] = c.ID
	}
	services, err := p.reader.Services(ctx, catalog.ServiceQuery{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("popular services: %w", err)
	}
	ratings, err := professionalRatings(ctx, p.reader, services)
	if err != nil {
		return nil, err
	}
	owner := make(map[int64]int64, len(services))
	for i := range services {
		owner[services[i].ID] = services[i].ProfessionalID
	}

	maxCount := float64(top[0].Count)
	scores := make(recommend.ScoreMap, len(top))
	for _, c := range top {
		rating := p.cfg.FallbackRating
		if pid, ok := owner[c.ID]; ok && ratings[pid] > 0 {
			rating = ratings[pid]
		}
		scores[c.ID] = p.cfg.CountWeight*float64(c.Count)/maxCount + p.cfg.RatingWeight*rating/5.0
	}
	return scores, nil
}
