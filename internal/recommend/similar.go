// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// Similar-service score terms.
const (
	similarBase         = 0.5
	similarPriceWeight  = 0.3
	similarRatingWeight = 0.2
)

// SimilarServices returns active services in the same category as
// serviceID whose professional is active and verified. An unknown service
// yields an empty list, not an error.
func (e *Engine) SimilarServices(ctx context.Context, serviceID int64, limit int) (_ []models.SimilarService, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("similar_services", time.Since(start), err) }()

	limit = e.config.clampLimit(limit, e.config.Limits.DefaultSimilar)

	ref, err := e.reader.Service(ctx, serviceID)
	if errors.Is(err, catalog.ErrNotFound) {
		return []models.SimilarService{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}

	candidates, err := e.reader.Services(ctx, catalog.ServiceQuery{
		CategoryIDs:  []int64{ref.CategoryID},
		ActiveOnly:   true,
		EligibleOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load category services: %w", err)
	}

	ownerIDs := make(map[int64]struct{}, len(candidates))
	for i := range candidates {
		ownerIDs[candidates[i].ProfessionalID] = struct{}{}
	}
	owners, err := e.professionalsByID(ctx, SortedIDs(ownerIDs))
	if err != nil {
		return nil, err
	}

	scores := make(ScoreMap, len(candidates))
	byID := make(map[int64]*models.Service, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.ID == ref.ID {
			continue
		}
		rating := 0.0
		if p, ok := owners[c.ProfessionalID]; ok {
			rating = p.AvgRating
		}
		scores[c.ID] = RoundTo(similarBase+
			similarPriceWeight*priceCloseness(ref.PricePerUnit, c.PricePerUnit)+
			similarRatingWeight*rating/5.0, scorePrecision)
		byID[c.ID] = c
	}

	ranked := scores.Ranked(limit)
	out := make([]models.SimilarService, 0, len(ranked))
	for _, r := range ranked {
		svc := byID[r.ID]
		item := models.SimilarService{
			ID:             svc.ID,
			Title:          svc.Title,
			PricePerUnit:   svc.PricePerUnit,
			PricingType:    svc.PricingType,
			CategoryID:     svc.CategoryID,
			ProfessionalID: svc.ProfessionalID,
			Score:          r.Score,
		}
		if p, ok := owners[svc.ProfessionalID]; ok {
			item.ProfessionalName = p.Name
			item.ProfessionalRating = p.AvgRating
		}
		out = append(out, item)
	}
	return out, nil
}

// priceCloseness is 1 - |a-b| / max(a, b). Two zero prices are identical.
func priceCloseness(a, b decimal.Decimal) float64 {
	maxPrice := decimal.Max(a, b)
	if !maxPrice.IsPositive() {
		return 1
	}
	closeness, _ := decimal.NewFromInt(1).Sub(a.Sub(b).Abs().Div(maxPrice)).Float64()
	if closeness < 0 {
		return 0
	}
	return closeness
}
