// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// RecommendProfessionals ranks active, verified professionals for the
// customer, optionally restricted to one category (categoryID 0 means any).
//
// The composite score is
//
//	0.30*rating/5 + 0.15*min(years/10, 1) + 0.15*min(reviews/50, 1)
//	  + 0.25*completion_rate + 0.15*proximity
//
// where proximity is the linear radius score and is 0 when either side has
// no coordinate or the professional is out of range.
func (e *Engine) RecommendProfessionals(ctx context.Context, customerID, categoryID int64, limit int) (_ []models.ProfessionalRecommendation, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("recommend_professionals", time.Since(start), err) }()

	limit = e.config.clampLimit(limit, e.config.Limits.DefaultProfessionals)

	customer, err := e.reader.Customer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	q := catalog.ProfessionalQuery{EligibleOnly: true}
	if categoryID != 0 {
		q.CategoryIDs = []int64{categoryID}
	}
	pros, err := e.reader.Professionals(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load professionals: %w", err)
	}
	if len(pros) == 0 {
		return []models.ProfessionalRecommendation{}, nil
	}

	ids := make([]int64, len(pros))
	for i := range pros {
		ids[i] = pros[i].ID
	}
	completion, err := e.history.CompletionRates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("completion rates: %w", err)
	}

	out := make([]models.ProfessionalRecommendation, 0, len(pros))
	for i := range pros {
		out = append(out, e.scoreProfessional(customer, &pros[i], completion[pros[i].ID]))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e *Engine) scoreProfessional(customer *models.Customer, p *models.Professional, completionRate float64) models.ProfessionalRecommendation {
	w := e.config.Professional

	rec := models.ProfessionalRecommendation{
		ID:              p.ID,
		Name:            p.Name,
		City:            p.City,
		AvgRating:       p.AvgRating,
		TotalReviews:    p.TotalReviews,
		YearsExperience: p.YearsExperience,
		CategoryIDs:     p.CategoryIDs,
		RatingScore:     p.AvgRating / 5.0,
		ExperienceScore: math.Min(float64(p.YearsExperience)/w.ExperienceYears, 1),
		ReviewScore:     math.Min(float64(p.TotalReviews)/w.ReviewCount, 1),
		CompletionRate:  completionRate,
	}

	if customer.Location != nil && p.Location != nil {
		d := geo.DistanceBetween(*customer.Location, *p.Location)
		rounded := geo.Round2(d)
		rec.DistanceKm = &rounded
		if score, ok := geo.ProximityScore(d, e.config.RadiusKm); ok {
			rec.ProximityScore = score
		}
	}

	rec.Score = RoundTo(w.Rating*rec.RatingScore+
		w.Experience*rec.ExperienceScore+
		w.Reviews*rec.ReviewScore+
		w.Completion*rec.CompletionRate+
		w.Proximity*rec.ProximityScore, scorePrecision)
	return rec
}
