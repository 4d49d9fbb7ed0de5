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

var completed = []models.BookingStatus{models.StatusCompleted}

// Collaborative scores "customers who completed X also completed Y".
//
// The cohort is the first CohortSize other customers (by id) with a
// completed booking in any of the customer's completed categories. Their
// completed bookings outside those categories are counted per service; the
// TopServices most booked are kept and divided by the largest count.
type Collaborative struct {
	reader catalog.Reader
	cfg    recommend.CollaborativeConfig
}

// NewCollaborative creates the collaborative filtering strategy.
func NewCollaborative(reader catalog.Reader, cfg recommend.CollaborativeConfig) *Collaborative {
	return &Collaborative{reader: reader, cfg: cfg}
}

// Name implements recommend.Strategy.
func (c *Collaborative) Name() string { return recommend.StrategyCollaborative }

// Score implements recommend.Strategy.
func (c *Collaborative) Score(ctx context.Context, req recommend.StrategyRequest) (recommend.ScoreMap, error) {
	own, err := loadBookings(ctx, c.reader, catalog.BookingQuery{
		CustomerIDs: []int64{req.Customer.ID},
		Statuses:    completed,
	})
	if err != nil {
		return nil, fmt.Errorf("customer history: %w", err)
	}
	categories := categoriesOf(own)
	if len(categories) == 0 {
		return recommend.ScoreMap{}, nil
	}

	peers, err := loadBookings(ctx, c.reader, catalog.BookingQuery{
		CategoryIDs:       categories,
		Statuses:          completed,
		ExcludeCustomerID: req.Customer.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("cohort selection: %w", err)
	}
	members := make(map[int64]struct{})
	for i := range peers {
		members[peers[i].CustomerID] = struct{}{}
	}
	cohort := recommend.SortedIDs(members)
	if len(cohort) == 0 {
		return recommend.ScoreMap{}, nil
	}
	if len(cohort) > c.cfg.CohortSize {
		cohort = cohort[:c.cfg.CohortSize]
	}

	discovered, err := loadBookings(ctx, c.reader, catalog.BookingQuery{
		CustomerIDs:        cohort,
		Statuses:           completed,
		ExcludeCategoryIDs: categories,
	})
	if err != nil {
		return nil, fmt.Errorf("cohort bookings: %w", err)
	}

	counts := make(map[int64]int)
	for i := range discovered {
		counts[discovered[i].ServiceID]++
	}
	return recommend.NormalizeByMax(recommend.TopCounts(counts, c.cfg.TopServices)), nil
}

// loadBookings reads bookings and rejects any missing mandatory references.
func loadBookings(ctx context.Context, reader catalog.Reader, q catalog.BookingQuery) ([]models.Booking, error) {
	list, err := reader.Bookings(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckBookings(list); err != nil {
		return nil, err
	}
	return list, nil
}

// categoriesOf returns the distinct categories of the bookings, ascending.
func categoriesOf(bookings []models.Booking) []int64 {
	set := make(map[int64]struct{})
	for i := range bookings {
		set[bookings[i].CategoryID] = struct{}{}
	}
	return recommend.SortedIDs(set)
}
