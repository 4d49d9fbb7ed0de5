// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package strategies implements the service scoring strategies blended by
// the recommendation engine.
//
// # Strategies
//
//   - Collaborative: services completed by customers who share the
//     customer's completed categories, outside those categories.
//   - Content: category match, price closeness to the customer's mean
//     completed price, and professional rating.
//   - Location: linear proximity of active, verified professionals.
//   - Popularity: recent booking volume blended with professional rating.
//
// Each strategy normalizes its own output to [0, 1]. None of them removes
// services the customer already booked; the engine does that once after
// merging.
//
// Strategies are stateless and safe for concurrent use.
package strategies

import (
	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/recommend"
)

// Defaults returns the four production strategies.
func Defaults(reader catalog.Reader, hist history.Provider, cfg *recommend.Config) []recommend.Strategy {
	return []recommend.Strategy{
		NewCollaborative(reader, cfg.Collaborative),
		NewContent(reader, hist, cfg.Content),
		NewLocation(reader, cfg.RadiusKm),
		NewPopularity(reader, cfg.Popularity),
	}
}

// RegisterDefaults registers the production strategies with engine.
func RegisterDefaults(engine *recommend.Engine, reader catalog.Reader, hist history.Provider) {
	for _, s := range Defaults(reader, hist, engine.Config()) {
		engine.RegisterStrategy(s)
	}
}
