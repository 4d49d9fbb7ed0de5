// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// Engine coordinates the scoring strategies and the other rankings.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	reader  catalog.Reader
	history history.Provider

	strategies []Strategy
	strategyMu sync.RWMutex

	now func() time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, reader catalog.Reader, hist history.Provider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if reader == nil || hist == nil {
		return nil, fmt.Errorf("catalog reader and history provider are required")
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		reader:     reader,
		history:    hist,
		strategies: make([]Strategy, 0, 4),
		now:        time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// SetClock replaces the time source. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// RegisterStrategy adds a strategy to the ensemble. A strategy whose name
// has no configured weight is kept but contributes nothing.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.strategyMu.Lock()
	defer e.strategyMu.Unlock()

	e.strategies = append(e.strategies, s)
	e.logger.Info().
		Str("strategy", s.Name()).
		Float64("weight", e.config.Weights.ToMap()[s.Name()]).
		Msg("registered strategy")
}

// Strategies returns the names of the registered strategies.
func (e *Engine) Strategies() []string {
	e.strategyMu.RLock()
	defer e.strategyMu.RUnlock()

	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

func (e *Engine) getStrategies() []Strategy {
	e.strategyMu.RLock()
	defer e.strategyMu.RUnlock()
	return append([]Strategy(nil), e.strategies...)
}

// strategyResult holds the result of a single strategy run.
type strategyResult struct {
	name   string
	scores ScoreMap
	err    error
}

// RecommendServices returns up to limit services the customer has never
// booked, ranked by the weighted strategy blend.
func (e *Engine) RecommendServices(ctx context.Context, customerID int64, limit int) (_ []models.ServiceRecommendation, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("recommend_services", time.Since(start), err) }()

	limit = e.config.clampLimit(limit, e.config.Limits.DefaultServices)

	customer, err := e.reader.Customer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	req := StrategyRequest{Customer: customer, Now: e.now()}
	results := e.runStrategies(ctx, req)

	merged, breakdown, err := e.mergeResults(results)
	if err != nil {
		return nil, err
	}

	booked, err := e.bookedServices(ctx, customerID)
	if err != nil {
		return nil, err
	}
	merged.Remove(booked)

	ranked := merged.Ranked(limit)

	recs, err := e.hydrateServices(ctx, ranked, breakdown)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Int64("customer_id", customerID).
		Int("scored", len(merged)).
		Int("returned", len(recs)).
		Dur("elapsed", time.Since(start)).
		Msg("service recommendations computed")

	return recs, nil
}

// runStrategies runs all strategies in parallel.
func (e *Engine) runStrategies(ctx context.Context, req StrategyRequest) []strategyResult {
	strategies := e.getStrategies()
	results := make([]strategyResult, len(strategies))
	var wg sync.WaitGroup

	for i, s := range strategies {
		wg.Add(1)
		go func(idx int, st Strategy) {
			defer wg.Done()
			results[idx] = e.runSingleStrategy(ctx, req, st)
		}(i, s)
	}

	wg.Wait()
	return results
}

func (e *Engine) runSingleStrategy(ctx context.Context, req StrategyRequest, s Strategy) strategyResult {
	result := strategyResult{name: s.Name()}

	if e.config.StrategyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.StrategyTimeout)
		defer cancel()
	}

	start := time.Now()
	result.scores, result.err = s.Score(ctx, req)
	metrics.RecordStrategy(result.name, time.Since(start), len(result.scores), result.err)
	return result
}

// mergeResults combines strategy outputs with the configured weights.
// Failed strategies are skipped unless the failure must reach the caller.
func (e *Engine) mergeResults(results []strategyResult) (ScoreMap, map[int64]map[string]float64, error) {
	weights := e.config.Weights.ToMap()
	merged := make(ScoreMap)
	breakdown := make(map[int64]map[string]float64)

	for _, r := range results {
		if r.err != nil {
			if isFatal(r.err) {
				return nil, nil, fmt.Errorf("strategy %s: %w", r.name, r.err)
			}
			e.logger.Warn().
				Str("strategy", r.name).
				Err(r.err).
				Msg("strategy failed, continuing without it")
			continue
		}

		weight := weights[r.name]
		if weight == 0 || len(r.scores) == 0 {
			continue
		}

		merged.Add(r.scores, weight)
		for id, s := range r.scores {
			if breakdown[id] == nil {
				breakdown[id] = make(map[string]float64, len(results))
			}
			breakdown[id][r.name] = s
		}
	}

	for id, s := range merged {
		merged[id] = RoundTo(s, scorePrecision)
	}
	return merged, breakdown, nil
}

// isFatal reports whether a strategy error must fail the whole request.
func isFatal(err error) bool {
	return errors.Is(err, catalog.ErrIntegrity) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// bookedServices returns every service the customer has booked, in any status.
func (e *Engine) bookedServices(ctx context.Context, customerID int64) (map[int64]struct{}, error) {
	bookings, err := e.reader.Bookings(ctx, catalog.BookingQuery{CustomerIDs: []int64{customerID}})
	if err != nil {
		return nil, fmt.Errorf("load customer bookings: %w", err)
	}
	if err := catalog.CheckBookings(bookings); err != nil {
		return nil, err
	}
	booked := make(map[int64]struct{}, len(bookings))
	for i := range bookings {
		booked[bookings[i].ServiceID] = struct{}{}
	}
	return booked, nil
}

// hydrateServices loads the ranked services, drops the ones that are no
// longer recommendable, and keeps the ranked order.
func (e *Engine) hydrateServices(ctx context.Context, ranked []Scored, breakdown map[int64]map[string]float64) ([]models.ServiceRecommendation, error) {
	if len(ranked) == 0 {
		return []models.ServiceRecommendation{}, nil
	}

	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}

	services, err := e.reader.Services(ctx, catalog.ServiceQuery{IDs: ids, ActiveOnly: true, EligibleOnly: true})
	if err != nil {
		return nil, fmt.Errorf("load ranked services: %w", err)
	}
	byID := make(map[int64]*models.Service, len(services))
	ownerIDs := make(map[int64]struct{}, len(services))
	for i := range services {
		byID[services[i].ID] = &services[i]
		ownerIDs[services[i].ProfessionalID] = struct{}{}
	}

	owners, err := e.professionalsByID(ctx, SortedIDs(ownerIDs))
	if err != nil {
		return nil, err
	}
	categoryNames, err := e.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ServiceRecommendation, 0, len(ranked))
	for _, r := range ranked {
		svc, ok := byID[r.ID]
		if !ok {
			continue
		}
		rec := models.ServiceRecommendation{
			ID:           svc.ID,
			Title:        svc.Title,
			Description:  svc.Description,
			PricePerUnit: svc.PricePerUnit,
			PricingType:  svc.PricingType,
			CategoryID:   svc.CategoryID,
			CategoryName: categoryNames[svc.CategoryID],
			Score:        r.Score,
			Scores:       breakdown[svc.ID],
		}
		rec.ProfessionalID = svc.ProfessionalID
		if p, ok := owners[svc.ProfessionalID]; ok {
			rec.ProfessionalName = p.Name
			rec.ProfessionalRating = p.AvgRating
		}
		out = append(out, rec)
	}
	return out, nil
}

func (e *Engine) professionalsByID(ctx context.Context, ids []int64) (map[int64]*models.Professional, error) {
	out := make(map[int64]*models.Professional, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pros, err := e.reader.Professionals(ctx, catalog.ProfessionalQuery{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("load professionals: %w", err)
	}
	for i := range pros {
		out[pros[i].ID] = &pros[i]
	}
	return out, nil
}

func (e *Engine) categoryNames(ctx context.Context) (map[int64]string, error) {
	cats, err := e.reader.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}
