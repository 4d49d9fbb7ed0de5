// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// OptimalPricing suggests a price for a service from the average price of
// the other active services in its category, adjusted by the owner's rating
// and experience. It returns ErrInsufficientData when the category has no
// other active service.
func (e *Engine) OptimalPricing(ctx context.Context, serviceID int64) (_ *models.PricingSuggestion, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("optimal_pricing", time.Since(start), err) }()

	svc, err := e.reader.Service(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	pro, err := e.reader.Professional(ctx, svc.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("load professional: %w", err)
	}

	market, err := e.reader.Services(ctx, catalog.ServiceQuery{
		CategoryIDs: []int64{svc.CategoryID},
		ActiveOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("load market services: %w", err)
	}

	prices := make([]decimal.Decimal, 0, len(market))
	for i := range market {
		if market[i].ID != svc.ID {
			prices = append(prices, market[i].PricePerUnit)
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("service %d: no comparable services in category %d: %w", svc.ID, svc.CategoryID, ErrInsufficientData)
	}

	avg := prices[0]
	if len(prices) > 1 {
		avg = decimal.Avg(prices[0], prices[1:]...)
	}

	p := e.config.Pricing
	ratingFactor := p.RatingBase + pro.AvgRating/p.RatingDivisor
	experienceFactor := 1 + float64(pro.YearsExperience)*p.ExperienceStep
	suggested := avg.
		Mul(decimal.NewFromFloat(ratingFactor)).
		Mul(decimal.NewFromFloat(experienceFactor)).
		Round(2)

	out := &models.PricingSuggestion{
		ServiceID:        svc.ID,
		CategoryID:       svc.CategoryID,
		CurrentPrice:     svc.PricePerUnit,
		MarketAverage:    avg.Round(2),
		SuggestedPrice:   suggested,
		ComparableCount:  len(prices),
		RatingFactor:     RoundTo(ratingFactor, 4),
		ExperienceFactor: RoundTo(experienceFactor, 4),
	}
	if svc.PricePerUnit.IsPositive() {
		diff, _ := suggested.Sub(svc.PricePerUnit).Div(svc.PricePerUnit).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		out.DifferencePercent = diff
	}
	return out, nil
}
