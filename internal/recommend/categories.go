// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

var completedOnly = []models.BookingStatus{models.StatusCompleted}

// RecommendCategories suggests categories the customer has not booked yet.
//
// For every category the customer has booked in, the engine looks at up to
// CohortSize other customers with a completed booking in that category and
// counts their completed bookings in categories new to the customer. Counts
// accumulate across seed categories and are normalized by the overall
// maximum.
func (e *Engine) RecommendCategories(ctx context.Context, customerID int64, limit int) (_ []models.CategoryRecommendation, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("recommend_categories", time.Since(start), err) }()

	limit = e.config.clampLimit(limit, e.config.Limits.DefaultCategories)

	if _, err := e.reader.Customer(ctx, customerID); err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	own, err := e.reader.Bookings(ctx, catalog.BookingQuery{CustomerIDs: []int64{customerID}})
	if err != nil {
		return nil, fmt.Errorf("load customer bookings: %w", err)
	}
	if err := catalog.CheckBookings(own); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	for i := range own {
		seen[own[i].CategoryID] = struct{}{}
	}
	if len(seen) == 0 {
		return []models.CategoryRecommendation{}, nil
	}
	exclude := SortedIDs(seen)

	counts := make(map[int64]int)
	for _, seed := range exclude {
		cohort, err := e.categoryCohort(ctx, customerID, seed)
		if err != nil {
			return nil, err
		}
		if len(cohort) == 0 {
			continue
		}
		coBookings, err := e.reader.Bookings(ctx, catalog.BookingQuery{
			CustomerIDs:        cohort,
			Statuses:           completedOnly,
			ExcludeCategoryIDs: exclude,
		})
		if err != nil {
			return nil, fmt.Errorf("load cohort bookings: %w", err)
		}
		if err := catalog.CheckBookings(coBookings); err != nil {
			return nil, err
		}
		for i := range coBookings {
			counts[coBookings[i].CategoryID]++
		}
	}

	names, err := e.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	top := TopCounts(counts, limit)
	scores := NormalizeByMax(TopCounts(counts, 0))
	out := make([]models.CategoryRecommendation, 0, len(top))
	for _, c := range top {
		out = append(out, models.CategoryRecommendation{
			ID:    c.ID,
			Name:  names[c.ID],
			Count: c.Count,
			Score: RoundTo(scores[c.ID], scorePrecision),
		})
	}
	return out, nil
}

// categoryCohort returns up to CohortSize other customers, lowest id first,
// with a completed booking in the category.
func (e *Engine) categoryCohort(ctx context.Context, customerID, categoryID int64) ([]int64, error) {
	bookings, err := e.reader.Bookings(ctx, catalog.BookingQuery{
		CategoryIDs:       []int64{categoryID},
		Statuses:          completedOnly,
		ExcludeCustomerID: customerID,
	})
	if err != nil {
		return nil, fmt.Errorf("load category %d cohort: %w", categoryID, err)
	}
	if err := catalog.CheckBookings(bookings); err != nil {
		return nil, err
	}
	members := make(map[int64]struct{})
	for i := range bookings {
		members[bookings[i].CustomerID] = struct{}{}
	}
	cohort := SortedIDs(members)
	if len(cohort) > e.config.Collaborative.CohortSize {
		cohort = cohort[:e.config.Collaborative.CohortSize]
	}
	return cohort, nil
}

// SuggestedCategories suggests categories a professional could add. Similar
// professionals are the other active professionals sharing at least one
// category; each candidate category is ranked by how many of them offer it.
// Score is that count divided by the number of similar professionals.
func (e *Engine) SuggestedCategories(ctx context.Context, professionalID int64, limit int) (_ []models.CategoryRecommendation, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("suggested_categories", time.Since(start), err) }()

	limit = e.config.clampLimit(limit, e.config.Limits.DefaultSuggested)

	pro, err := e.reader.Professional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("load professional: %w", err)
	}
	if len(pro.CategoryIDs) == 0 {
		return []models.CategoryRecommendation{}, nil
	}

	peers, err := e.reader.Professionals(ctx, catalog.ProfessionalQuery{CategoryIDs: pro.CategoryIDs})
	if err != nil {
		return nil, fmt.Errorf("load similar professionals: %w", err)
	}

	offered := IDSet(pro.CategoryIDs)
	counts := make(map[int64]int)
	similar := 0
	for i := range peers {
		p := &peers[i]
		if p.ID == pro.ID || !p.Active {
			continue
		}
		similar++
		for _, c := range p.CategoryIDs {
			if _, ok := offered[c]; !ok {
				counts[c]++
			}
		}
	}
	if similar == 0 {
		return []models.CategoryRecommendation{}, nil
	}

	names, err := e.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	top := TopCounts(counts, limit)
	out := make([]models.CategoryRecommendation, 0, len(top))
	for _, c := range top {
		out = append(out, models.CategoryRecommendation{
			ID:    c.ID,
			Name:  names[c.ID],
			Count: c.Count,
			Score: RoundTo(float64(c.Count)/float64(similar), scorePrecision),
		})
	}
	return out, nil
}
