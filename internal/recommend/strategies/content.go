// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package strategies

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/recommend"
)

// Content scores services against the customer's completed bookings:
//
//	+CategoryWeight                        category previously completed
//	+PriceWeight * (1 - diff/tolerance)    price within tolerance of the mean
//	+RatingWeight * rating/5               professional has a rating
//
// tolerance is PriceTolerance times the customer's mean completed price.
// Candidates are active services of active, verified professionals.
// Services scoring 0 are omitted.
type Content struct {
	reader  catalog.Reader
	history history.Provider
	cfg     recommend.ContentConfig
}

// NewContent creates the content-based strategy.
func NewContent(reader catalog.Reader, hist history.Provider, cfg recommend.ContentConfig) *Content {
	return &Content{reader: reader, history: hist, cfg: cfg}
}

// Name implements recommend.Strategy.
func (c *Content) Name() string { return recommend.StrategyContent }

// Score implements recommend.Strategy.
func (c *Content) Score(ctx context.Context, req recommend.StrategyRequest) (recommend.ScoreMap, error) {
	own, err := loadBookings(ctx, c.reader, catalog.BookingQuery{
		CustomerIDs: []int64{req.Customer.ID},
		Statuses:    completed,
	})
	if err != nil {
		return nil, fmt.Errorf("customer history: %w", err)
	}
	if len(own) == 0 {
		return recommend.ScoreMap{}, nil
	}
	booked := recommend.IDSet(categoriesOf(own))

	avg, hasAvg, err := c.history.CustomerAveragePrice(ctx, req.Customer.ID)
	if err != nil {
		return nil, fmt.Errorf("average price: %w", err)
	}
	tolerance := avg.Mul(decimal.NewFromFloat(c.cfg.PriceTolerance))
	usePrice := hasAvg && tolerance.IsPositive()

	candidates, err := c.reader.Services(ctx, catalog.ServiceQuery{ActiveOnly: true, EligibleOnly: true})
	if err != nil {
		return nil, fmt.Errorf("candidate services: %w", err)
	}
	ratings, err := professionalRatings(ctx, c.reader, candidates)
	if err != nil {
		return nil, err
	}

	scores := make(recommend.ScoreMap)
	for i := range candidates {
		svc := &candidates[i]
		score := 0.0

		if _, ok := booked[svc.CategoryID]; ok {
			score += c.cfg.CategoryWeight
		}

		if usePrice {
			diff := svc.PricePerUnit.Sub(avg).Abs()
			if diff.LessThanOrEqual(tolerance) {
				closeness, _ := decimal.NewFromInt(1).Sub(diff.Div(tolerance)).Float64()
				score += c.cfg.PriceWeight * closeness
			}
		}

		if rating := ratings[svc.ProfessionalID]; rating > 0 {
			score += c.cfg.RatingWeight * rating / 5.0
		}

		if score > 0 {
			scores[svc.ID] = score
		}
	}
	return scores, nil
}

// professionalRatings maps the owners of services to their average rating.
func professionalRatings(ctx context.Context, reader catalog.Reader, services []models.Service) (map[int64]float64, error) {
	owners := make(map[int64]struct{}, len(services))
	for i := range services {
		owners[services[i].ProfessionalID] = struct{}{}
	}
	ratings := make(map[int64]float64, len(owners))
	if len(owners) == 0 {
		return ratings, nil
	}
	pros, err := reader.Professionals(ctx, catalog.ProfessionalQuery{IDs: recommend.SortedIDs(owners)})
	if err != nil {
		return nil, fmt.Errorf("service owners: %w", err)
	}
	for i := range pros {
		ratings[pros[i].ID] = pros[i].AvgRating
	}
	return ratings, nil
}
