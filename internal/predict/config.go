// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package predict

import (
	"fmt"
	"math"
)

// Risk factor names, in reporting order.
const (
	FactorCustomerHistory     = "customer_history"
	FactorProfessionalHistory = "professional_history"
	FactorLeadTime            = "lead_time"
	FactorPriceDeviation      = "price_deviation"
	FactorFirstTime           = "first_time"
	FactorCategoryRate        = "category_rate"
)

// Config contains the predictive analytics parameters.
type Config struct {
	Risk     RiskConfig     `koanf:"risk" json:"risk"`
	Forecast ForecastConfig `koanf:"forecast" json:"forecast"`
}

// RiskConfig holds the cancellation risk weights and step values.
type RiskConfig struct {
	Weights RiskWeights `koanf:"weights" json:"weights"`

	// FirstTimeScore is the factor score of a first-time pairing.
	FirstTimeScore float64 `koanf:"first_time_score" json:"first_time_score"`
}

// RiskWeights holds the weight of each risk factor. They must sum to 1.0.
type RiskWeights struct {
	CustomerHistory     float64 `koanf:"customer_history" json:"customer_history"`
	ProfessionalHistory float64 `koanf:"professional_history" json:"professional_history"`
	LeadTime            float64 `koanf:"lead_time" json:"lead_time"`
	PriceDeviation      float64 `koanf:"price_deviation" json:"price_deviation"`
	FirstTime           float64 `koanf:"first_time" json:"first_time"`
	CategoryRate        float64 `koanf:"category_rate" json:"category_rate"`
}

// Sum returns the total weight.
func (w RiskWeights) Sum() float64 {
	return w.CustomerHistory + w.ProfessionalHistory + w.LeadTime +
		w.PriceDeviation + w.FirstTime + w.CategoryRate
}

// ForecastConfig holds the demand forecast parameters.
type ForecastConfig struct {
	DefaultDays int `koanf:"default_days" json:"default_days"`
	MaxDays     int `koanf:"max_days" json:"max_days"`

	// TrendWeeks is how many weeks at each end of the lookback are compared.
	TrendWeeks int `koanf:"trend_weeks" json:"trend_weeks"`
	// TrendThreshold is the relative change that counts as a trend.
	TrendThreshold float64 `koanf:"trend_threshold" json:"trend_threshold"`

	// HighConfidence and MediumConfidence are exclusive lower bounds on the
	// lookback total.
	HighConfidence   int `koanf:"high_confidence" json:"high_confidence"`
	MediumConfidence int `koanf:"medium_confidence" json:"medium_confidence"`

	DefaultPeakHours int `koanf:"default_peak_hours" json:"default_peak_hours"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		Risk: RiskConfig{
			Weights: RiskWeights{
				CustomerHistory:     0.25,
				ProfessionalHistory: 0.20,
				LeadTime:            0.15,
				PriceDeviation:      0.15,
				FirstTime:           0.10,
				CategoryRate:        0.15,
			},
			FirstTimeScore: 0.3,
		},
		Forecast: ForecastConfig{
			DefaultDays:      7,
			MaxDays:          90,
			TrendWeeks:       4,
			TrendThreshold:   0.2,
			HighConfidence:   50,
			MediumConfidence: 20,
			DefaultPeakHours: 5,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if sum := c.Risk.Weights.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("risk weights must sum to 1.0, got %v", sum)
	}
	if c.Risk.FirstTimeScore < 0 || c.Risk.FirstTimeScore > 1 {
		return fmt.Errorf("first_time_score must be between 0 and 1, got %v", c.Risk.FirstTimeScore)
	}

	f := c.Forecast
	if f.MaxDays < 1 || f.DefaultDays < 1 || f.DefaultDays > f.MaxDays {
		return fmt.Errorf("forecast days must satisfy 1 <= default_days (%d) <= max_days (%d)", f.DefaultDays, f.MaxDays)
	}
	if f.TrendWeeks < 1 {
		return fmt.Errorf("trend_weeks must be at least 1, got %d", f.TrendWeeks)
	}
	if f.TrendThreshold < 0 {
		return fmt.Errorf("trend_threshold must be non-negative, got %v", f.TrendThreshold)
	}
	if f.MediumConfidence < 0 || f.HighConfidence < f.MediumConfidence {
		return fmt.Errorf("confidence bounds must satisfy 0 <= medium (%d) <= high (%d)", f.MediumConfidence, f.HighConfidence)
	}
	if f.DefaultPeakHours < 1 || f.DefaultPeakHours > 24 {
		return fmt.Errorf("default_peak_hours must be between 1 and 24, got %d", f.DefaultPeakHours)
	}
	return nil
}
