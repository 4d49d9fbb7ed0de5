// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"context"
	"time"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/predict"
)

// Recommender is the part of recommend.Engine the handlers call.
type Recommender interface {
	RecommendServices(ctx context.Context, customerID int64, limit int) ([]models.ServiceRecommendation, error)
	RecommendProfessionals(ctx context.Context, customerID, categoryID int64, limit int) ([]models.ProfessionalRecommendation, error)
	RecommendCategories(ctx context.Context, customerID int64, limit int) ([]models.CategoryRecommendation, error)
	SimilarServices(ctx context.Context, serviceID int64, limit int) ([]models.SimilarService, error)
	SuggestedCategories(ctx context.Context, professionalID int64, limit int) ([]models.CategoryRecommendation, error)
	OptimalPricing(ctx context.Context, serviceID int64) (*models.PricingSuggestion, error)
}

// RiskPredictor scores bookings for cancellation risk.
type RiskPredictor interface {
	Predict(ctx context.Context, bookingID int64) (*models.RiskAssessment, error)
}

// DemandForecaster forecasts bookings and peak hours.
type DemandForecaster interface {
	Forecast(ctx context.Context, req predict.ForecastRequest) ([]models.DemandForecastPoint, error)
	PeakHours(ctx context.Context, filter history.Filter, limit int) ([]models.PeakHour, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of a Handler. Cache and Store may be
// nil; a nil cache disables response caching and a nil store is never ready.
type Dependencies struct {
	Recommender Recommender
	Risk        RiskPredictor
	Forecaster  DemandForecaster
	Store       Pinger
	Cache       cache.Store

	// RequestTimeout bounds each engine call. Zero means no extra deadline.
	RequestTimeout time.Duration
	Version        string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_recommend.go: customer, service and professional recommendations
//   - handlers_analytics.go: cancellation risk, demand forecast, peak hours
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	recommender    Recommender
	risk           RiskPredictor
	forecaster     DemandForecaster
	store          Pinger
	cache          cache.Store
	requestTimeout time.Duration
	version        string
	startTime      time.Time
	executor       *QueryExecutor
}

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	store := deps.Cache
	if store == nil {
		store = cache.NoopStore{}
	}
	h := &Handler{
		recommender:    deps.Recommender,
		risk:           deps.Risk,
		forecaster:     deps.Forecaster,
		store:          deps.Store,
		cache:          store,
		requestTimeout: deps.RequestTimeout,
		version:        deps.Version,
		startTime:      time.Now(),
	}
	h.executor = NewQueryExecutor(store, deps.RequestTimeout)
	return h
}

// ClearCache invalidates all cached responses.
//
// Called after a snapshot import replaces the marketplace data.
func (h *Handler) ClearCache(ctx context.Context) {
	if err := h.cache.Clear(ctx); err != nil {
		logging.Warn().Err(err).Str("backend", h.cache.Name()).Msg("Failed to clear response cache")
		return
	}
	logging.Info().Str("backend", h.cache.Name()).Msg("Response cache cleared")
}
