// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package models

import (
	"github.com/shopspring/decimal"
)

// ServiceRecommendation is one ranked service for a customer.
//
// Scores holds the per-strategy contribution before weighting, keyed by
// strategy name (collaborative, content, location, popularity). A strategy
// that did not score the service is absent from the map.
type ServiceRecommendation struct {
	ID                 int64              `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	PricePerUnit       decimal.Decimal    `json:"price_per_unit"`
	PricingType        PricingType        `json:"pricing_type,omitempty"`
	CategoryID         int64              `json:"category_id"`
	CategoryName       string             `json:"category_name,omitempty"`
	ProfessionalID     int64              `json:"professional_id"`
	ProfessionalName   string             `json:"professional_name,omitempty"`
	ProfessionalRating float64            `json:"professional_rating"`
	Score              float64            `json:"score"`
	Scores             map[string]float64 `json:"scores,omitempty"`
}

// ProfessionalRecommendation is one ranked professional with its composite
// score components.
type ProfessionalRecommendation struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name,omitempty"`
	City            string   `json:"city,omitempty"`
	AvgRating       float64  `json:"avg_rating"`
	TotalReviews    int      `json:"total_reviews"`
	YearsExperience int      `json:"years_of_experience"`
	CategoryIDs     []int64  `json:"category_ids"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	Score           float64  `json:"score"`

	RatingScore     float64 `json:"rating_score"`
	ExperienceScore float64 `json:"experience_score"`
	ReviewScore     float64 `json:"review_score"`
	CompletionRate  float64 `json:"completion_rate"`
	ProximityScore  float64 `json:"proximity_score"`
}

// SimilarService is a service in the same category as a reference service.
type SimilarService struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	PricePerUnit       decimal.Decimal `json:"price_per_unit"`
	PricingType        PricingType     `json:"pricing_type,omitempty"`
	CategoryID         int64           `json:"category_id"`
	ProfessionalID     int64           `json:"professional_id"`
	ProfessionalName   string          `json:"professional_name,omitempty"`
	ProfessionalRating float64         `json:"professional_rating"`
	Score              float64         `json:"score"`
}

// CategoryRecommendation is a category suggested to a customer or to a
// professional. Score is normalized for customers; for professionals it is
// the share of similar professionals offering the category.
type CategoryRecommendation struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// PricingSuggestion is the market-based price suggestion for a service.
type PricingSuggestion struct {
	ServiceID         int64           `json:"service_id"`
	CategoryID        int64           `json:"category_id"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	MarketAverage     decimal.Decimal `json:"market_average"`
	SuggestedPrice    decimal.Decimal `json:"suggested_price"`
	ComparableCount   int             `json:"comparable_count"`
	RatingFactor      float64         `json:"rating_factor"`
	ExperienceFactor  float64         `json:"experience_factor"`
	DifferencePercent float64         `json:"difference_percent"`
}

// RiskLevel buckets a cancellation risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// String implements fmt.Stringer.
func (l RiskLevel) String() string { return string(l) }

// RiskFactor is one weighted input of a cancellation risk assessment.
type RiskFactor struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// RiskAssessment is the cancellation risk of a single booking.
type RiskAssessment struct {
	BookingID int64        `json:"booking_id"`
	RiskScore float64      `json:"risk_score"`
	RiskLevel RiskLevel    `json:"risk_level"`
	Factors   []RiskFactor `json:"factors"`
}

// Factor returns the named factor score and whether it exists.
func (r *RiskAssessment) Factor(name string) (float64, bool) {
	for _, f := range r.Factors {
		if f.Name == name {
			return f.Score, true
		}
	}
	return 0, false
}

// Trend labels the direction of weekly demand.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// Confidence labels how much history backs a forecast point.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// DemandForecastPoint is the expected booking count for one future day.
// Date is formatted as YYYY-MM-DD.
type DemandForecastPoint struct {
	Date           string     `json:"date"`
	Weekday        string     `json:"day_of_week"`
	PredictedCount float64    `json:"predicted_bookings"`
	Confidence     Confidence `json:"confidence"`
	Trend          Trend      `json:"trend"`
	SampleTotal    int        `json:"sample_total"`
}

// PeakHour is the booking volume for one hour of the day.
type PeakHour struct {
	Hour     int     `json:"hour"`
	Bookings int     `json:"bookings"`
	Share    float64 `json:"share"`
}
