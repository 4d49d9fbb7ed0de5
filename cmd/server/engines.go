// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package main

import (
	"fmt"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/predict"
	"github.com/tomtom215/servicebridge/internal/recommend"
	"github.com/tomtom215/servicebridge/internal/recommend/strategies"
)

// engines groups the query engines the API serves.
type engines struct {
	recommender *recommend.Engine
	risk        *predict.RiskPredictor
	forecaster  *predict.Forecaster
}

// buildEngines wires the history aggregator, the recommendation strategies
// and the predictors over reader.
func buildEngines(cfg *config.Config, reader catalog.Reader) (*engines, error) {
	hist := history.NewAggregator(reader, cfg.History)

	engine, err := recommend.NewEngine(&cfg.Recommend, reader, hist, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	strategies.RegisterDefaults(engine, reader, hist)

	risk, err := predict.NewRiskPredictor(&cfg.Predict, reader, hist, logging.WithComponent("risk"))
	if err != nil {
		return nil, fmt.Errorf("create risk predictor: %w", err)
	}

	forecaster, err := predict.NewForecaster(&cfg.Predict, hist, logging.WithComponent("forecast"))
	if err != nil {
		return nil, fmt.Errorf("create forecaster: %w", err)
	}

	return &engines{recommender: engine, risk: risk, forecaster: forecaster}, nil
}
