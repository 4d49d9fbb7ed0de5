// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"fmt"
	"math"
	"time"
)

// Strategy names. Weights are looked up by these.
const (
	StrategyCollaborative = "collaborative"
	StrategyContent       = "content"
	StrategyLocation      = "location"
	StrategyPopularity    = "popularity"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the contribution of each strategy to the merged score.
	// Unlike a normalizing blend, the weights must already sum to 1.0.
	Weights StrategyWeights `koanf:"weights" json:"weights"`

	// Limits contains default and maximum result sizes.
	Limits LimitsConfig `koanf:"limits" json:"limits"`

	// Collaborative contains cohort bounds for collaborative filtering.
	Collaborative CollaborativeConfig `koanf:"collaborative" json:"collaborative"`

	// Content contains the content-based term weights.
	Content ContentConfig `koanf:"content" json:"content"`

	// Popularity contains the trending window and score blend.
	Popularity PopularityConfig `koanf:"popularity" json:"popularity"`

	// RadiusKm bounds location scoring and professional proximity.
	RadiusKm float64 `koanf:"radius_km" json:"radius_km"`

	// Professional contains the composite professional score weights.
	Professional ProfessionalWeights `koanf:"professional" json:"professional"`

	// Pricing contains the optimal pricing adjustments.
	Pricing PricingConfig `koanf:"pricing" json:"pricing"`

	// StrategyTimeout bounds a single strategy run. Zero means only the
	// request context applies.
	StrategyTimeout time.Duration `koanf:"strategy_timeout" json:"strategy_timeout"`
}

// StrategyWeights holds the merge weight of each service strategy.
type StrategyWeights struct {
	Collaborative float64 `koanf:"collaborative" json:"collaborative"`
	Content       float64 `koanf:"content" json:"content"`
	Location      float64 `koanf:"location" json:"location"`
	Popularity    float64 `koanf:"popularity" json:"popularity"`
}

// ToMap returns the weights keyed by strategy name.
func (w StrategyWeights) ToMap() map[string]float64 {
	return map[string]float64{
		StrategyCollaborative: w.Collaborative,
		StrategyContent:       w.Content,
		StrategyLocation:      w.Location,
		StrategyPopularity:    w.Popularity,
	}
}

// Sum returns the total of all weights.
func (w StrategyWeights) Sum() float64 {
	return w.Collaborative + w.Content + w.Location + w.Popularity
}

// LimitsConfig contains result size limits.
type LimitsConfig struct {
	DefaultServices      int `koanf:"default_services" json:"default_services"`
	DefaultProfessionals int `koanf:"default_professionals" json:"default_professionals"`
	DefaultCategories    int `koanf:"default_categories" json:"default_categories"`
	DefaultSimilar       int `koanf:"default_similar" json:"default_similar"`
	DefaultSuggested     int `koanf:"default_suggested" json:"default_suggested"`
	MaxLimit             int `koanf:"max_limit" json:"max_limit"`
}

// CollaborativeConfig bounds the collaborative cohort.
type CollaborativeConfig struct {
	// CohortSize is the maximum number of other customers considered.
	CohortSize int `koanf:"cohort_size" json:"cohort_size"`
	// TopServices is how many cohort services are kept before normalization.
	TopServices int `koanf:"top_services" json:"top_services"`
}

// ContentConfig holds the content-based term weights.
type ContentConfig struct {
	CategoryWeight float64 `koanf:"category_weight" json:"category_weight"`
	PriceWeight    float64 `koanf:"price_weight" json:"price_weight"`
	RatingWeight   float64 `koanf:"rating_weight" json:"rating_weight"`
	// PriceTolerance is the band around the customer's mean price, as a
	// fraction of that mean, inside which the price term is non-zero.
	PriceTolerance float64 `koanf:"price_tolerance" json:"price_tolerance"`
}

// PopularityConfig holds the trending parameters.
type PopularityConfig struct {
	Window         time.Duration `koanf:"window" json:"window"`
	TopServices    int           `koanf:"top_services" json:"top_services"`
	CountWeight    float64       `koanf:"count_weight" json:"count_weight"`
	RatingWeight   float64       `koanf:"rating_weight" json:"rating_weight"`
	FallbackRating float64       `koanf:"fallback_rating" json:"fallback_rating"`
}

// ProfessionalWeights holds the professional composite weights and caps.
type ProfessionalWeights struct {
	Rating          float64 `koanf:"rating" json:"rating"`
	Experience      float64 `koanf:"experience" json:"experience"`
	Reviews         float64 `koanf:"reviews" json:"reviews"`
	Completion      float64 `koanf:"completion" json:"completion"`
	Proximity       float64 `koanf:"proximity" json:"proximity"`
	ExperienceYears float64 `koanf:"experience_years" json:"experience_years"`
	ReviewCount     float64 `koanf:"review_count" json:"review_count"`
}

// Sum returns the total of the component weights.
func (w ProfessionalWeights) Sum() float64 {
	return w.Rating + w.Experience + w.Reviews + w.Completion + w.Proximity
}

// PricingConfig holds the optimal pricing adjustments:
//
//	suggested = market_avg * (RatingBase + rating/RatingDivisor) * (1 + years*ExperienceStep)
type PricingConfig struct {
	RatingBase     float64 `koanf:"rating_base" json:"rating_base"`
	RatingDivisor  float64 `koanf:"rating_divisor" json:"rating_divisor"`
	ExperienceStep float64 `koanf:"experience_step" json:"experience_step"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: StrategyWeights{
			Collaborative: 0.4,
			Content:       0.3,
			Location:      0.2,
			Popularity:    0.1,
		},
		Limits: LimitsConfig{
			DefaultServices:      10,
			DefaultProfessionals: 10,
			DefaultCategories:    5,
			DefaultSimilar:       5,
			DefaultSuggested:     5,
			MaxLimit:             100,
		},
		Collaborative: CollaborativeConfig{
			CohortSize:  100,
			TopServices: 50,
		},
		Content: ContentConfig{
			CategoryWeight: 0.5,
			PriceWeight:    0.3,
			RatingWeight:   0.2,
			PriceTolerance: 0.5,
		},
		Popularity: PopularityConfig{
			Window:         30 * 24 * time.Hour,
			TopServices:    50,
			CountWeight:    0.7,
			RatingWeight:   0.3,
			FallbackRating: 3.0,
		},
		RadiusKm: 50,
		Professional: ProfessionalWeights{
			Rating:          0.30,
			Experience:      0.15,
			Reviews:         0.15,
			Completion:      0.25,
			Proximity:       0.15,
			ExperienceYears: 10,
			ReviewCount:     50,
		},
		Pricing: PricingConfig{
			RatingBase:     0.9,
			RatingDivisor:  50,
			ExperienceStep: 0.02,
		},
		StrategyTimeout: 5 * time.Second,
	}
}

const weightTolerance = 1e-9

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	for name, w := range c.Weights.ToMap() {
		if w < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, w)
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("strategy weights must sum to 1.0, got %v", sum)
	}
	if sum := c.Professional.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("professional weights must sum to 1.0, got %v", sum)
	}
	if c.Professional.ExperienceYears <= 0 || c.Professional.ReviewCount <= 0 {
		return fmt.Errorf("professional experience_years and review_count must be positive")
	}

	l := c.Limits
	if l.MaxLimit <= 0 {
		return fmt.Errorf("max_limit must be positive, got %d", l.MaxLimit)
	}
	for name, v := range map[string]int{
		"default_services":      l.DefaultServices,
		"default_professionals": l.DefaultProfessionals,
		"default_categories":    l.DefaultCategories,
		"default_similar":       l.DefaultSimilar,
		"default_suggested":     l.DefaultSuggested,
	} {
		if v <= 0 || v > l.MaxLimit {
			return fmt.Errorf("%s must be between 1 and %d, got %d", name, l.MaxLimit, v)
		}
	}

	if c.Collaborative.CohortSize <= 0 || c.Collaborative.TopServices <= 0 {
		return fmt.Errorf("collaborative cohort_size and top_services must be positive")
	}
	if c.Popularity.TopServices <= 0 || c.Popularity.Window <= 0 {
		return fmt.Errorf("popularity top_services and window must be positive")
	}
	if c.Popularity.FallbackRating < 0 || c.Popularity.FallbackRating > 5 {
		return fmt.Errorf("popularity fallback_rating must be between 0 and 5, got %v", c.Popularity.FallbackRating)
	}
	if c.Content.PriceTolerance < 0 {
		return fmt.Errorf("content price_tolerance must be non-negative, got %v", c.Content.PriceTolerance)
	}
	if c.RadiusKm <= 0 {
		return fmt.Errorf("radius_km must be positive, got %v", c.RadiusKm)
	}
	if c.Pricing.RatingDivisor <= 0 {
		return fmt.Errorf("pricing rating_divisor must be positive, got %v", c.Pricing.RatingDivisor)
	}
	if c.StrategyTimeout < 0 {
		return fmt.Errorf("strategy_timeout must be non-negative")
	}
	return nil
}

// clampLimit applies the default for non-positive limits and caps at MaxLimit.
func (c *Config) clampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > c.Limits.MaxLimit {
		limit = c.Limits.MaxLimit
	}
	return limit
}
