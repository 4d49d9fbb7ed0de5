// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package strategies

import (
	"context"
	"fmt"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/recommend"
)

// Location scores the active services of nearby professionals with
// 1 - distance/radius. Customers without a coordinate get no scores.
type Location struct {
	reader   catalog.Reader
	radiusKm float64
}

// NewLocation creates the location strategy.
func NewLocation(reader catalog.Reader, radiusKm float64) *Location {
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}
	return &Location{reader: reader, radiusKm: radiusKm}
}

// Name implements recommend.Strategy.
func (l *Location) Name() string { return recommend.StrategyLocation }

// Score implements recommend.Strategy.
func (l *Location) Score(ctx context.Context, req recommend.StrategyRequest) (recommend.ScoreMap, error) {
	origin := req.Customer.Location
	if origin == nil {
		return recommend.ScoreMap{}, nil
	}

	box := geo.BoundingBox(origin.Lat, origin.Lon, l.radiusKm)
	pros, err := l.reader.Professionals(ctx, catalog.ProfessionalQuery{EligibleOnly: true, Within: &box})
	if err != nil {
		return nil, fmt.Errorf("nearby professionals: %w", err)
	}

	proximity := make(map[int64]float64, len(pros))
	for i := range pros {
		p := &pros[i]
		if p.Location == nil {
			continue
		}
		// The box over-approximates the circle; confirm with the real distance.
		if score, ok := geo.ProximityScore(geo.DistanceBetween(*origin, *p.Location), l.radiusKm); ok {
			proximity[p.ID] = score
		}
	}
	if len(proximity) == 0 {
		return recommend.ScoreMap{}, nil
	}

	owners := make([]int64, 0, len(proximity))
	for id := range proximity {
		owners = append(owners, id)
	}
	services, err := l.reader.Services(ctx, catalog.ServiceQuery{
		ProfessionalIDs: recommend.SortedIDs(recommend.IDSet(owners)),
		ActiveOnly:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("nearby services: %w", err)
	}

	scores := make(recommend.ScoreMap, len(services))
	for i := range services {
		scores[services[i].ID] = proximity[services[i].ProfessionalID]
	}
	return scores, nil
}
