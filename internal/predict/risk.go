// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package predict

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// RiskPredictor estimates the probability-like risk that a booking is
// cancelled.
type RiskPredictor struct {
	cfg     RiskConfig
	reader  catalog.Reader
	history history.Provider
	logger  zerolog.Logger
	now     func() time.Time
}

// NewRiskPredictor creates a cancellation risk predictor. A nil cfg uses
// DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRiskPredictor(cfg *Config, reader catalog.Reader, hist history.Provider, logger zerolog.Logger) (*RiskPredictor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if reader == nil || hist == nil {
		return nil, fmt.Errorf("catalog reader and history provider are required")
	}
	return &RiskPredictor{
		cfg:     cfg.Risk,
		reader:  reader,
		history: hist,
		logger:  logger.With().Str("component", "risk").Logger(),
		now:     time.Now,
	}, nil
}

// SetClock replaces the time source. Intended for tests.
func (p *RiskPredictor) SetClock(now func() time.Time) {
	p.now = now
}

// Predict loads the booking and assesses it.
func (p *RiskPredictor) Predict(ctx context.Context, bookingID int64) (*models.RiskAssessment, error) {
	booking, err := p.reader.Booking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return p.Assess(ctx, booking)
}

// Assess scores a booking that is already loaded.
func (p *RiskPredictor) Assess(ctx context.Context, b *models.Booking) (_ *models.RiskAssessment, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("cancellation_risk", time.Since(start), err) }()

	if err := catalog.CheckBooking(b); err != nil {
		return nil, err
	}

	customerRate, err := p.history.CustomerCancellationRate(ctx, b.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer history: %w", err)
	}
	professionalRate, err := p.history.ProfessionalIssueRate(ctx, b.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("professional history: %w", err)
	}
	priceRisk, err := p.priceDeviationRisk(ctx, b)
	if err != nil {
		return nil, err
	}
	firstTime, err := p.history.IsFirstTimePairing(ctx, b.CustomerID, b.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("pairing history: %w", err)
	}
	categoryRate, err := p.history.CategoryCancellationRate(ctx, b.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category history: %w", err)
	}

	firstTimeScore := 0.0
	if firstTime {
		firstTimeScore = p.cfg.FirstTimeScore
	}

	w := p.cfg.Weights
	factors := []models.RiskFactor{
		{Name: FactorCustomerHistory, Score: customerRate, Weight: w.CustomerHistory},
		{Name: FactorProfessionalHistory, Score: professionalRate, Weight: w.ProfessionalHistory},
		{Name: FactorLeadTime, Score: LeadTimeRisk(b.ScheduledAt, p.now()), Weight: w.LeadTime},
		{Name: FactorPriceDeviation, Score: priceRisk, Weight: w.PriceDeviation},
		{Name: FactorFirstTime, Score: firstTimeScore, Weight: w.FirstTime},
		{Name: FactorCategoryRate, Score: categoryRate, Weight: w.CategoryRate},
	}

	total := 0.0
	for i := range factors {
		total += factors[i].Score * factors[i].Weight
		factors[i].Score = round(factors[i].Score, 3)
	}
	total = math.Min(math.Max(total, 0), 1)

	// The level buckets the unrounded total; 0.1996 is LOW even though it
	// is reported as 0.2.
	out := &models.RiskAssessment{
		BookingID: b.ID,
		RiskScore: round(total, 3),
		RiskLevel: Level(total),
		Factors:   factors,
	}
	metrics.RecordRiskAssessment(string(out.RiskLevel))

	p.logger.Debug().
		Int64("booking_id", b.ID).
		Float64("risk_score", out.RiskScore).
		Str("risk_level", string(out.RiskLevel)).
		Msg("cancellation risk assessed")

	return out, nil
}

// priceDeviationRisk compares the booking price with the customer's mean
// completed price. Missing prices score the baseline.
func (p *RiskPredictor) priceDeviationRisk(ctx context.Context, b *models.Booking) (float64, error) {
	const baseline = 0.1

	avg, ok, err := p.history.CustomerAveragePrice(ctx, b.CustomerID)
	if err != nil {
		return 0, fmt.Errorf("customer average price: %w", err)
	}
	if !ok || !avg.IsPositive() || !b.EstimatedPrice.Valid {
		return baseline, nil
	}
	return PriceDeviationRisk(b.EstimatedPrice.Decimal, avg), nil
}

// PriceDeviationRisk scores the relative distance of price from avg.
func PriceDeviationRisk(price, avg decimal.Decimal) float64 {
	if !avg.IsPositive() {
		return 0.1
	}
	deviation := price.Sub(avg).Abs().Div(avg)
	switch {
	case deviation.GreaterThan(decimal.NewFromInt(1)):
		return 0.4
	case deviation.GreaterThan(decimal.NewFromFloat(0.5)):
		return 0.3
	default:
		return 0.1
	}
}

// LeadTimeRisk scores the number of calendar days between now and the
// scheduled date. Bookings for today or in the past count as under one day.
func LeadTimeRisk(scheduled, now time.Time) float64 {
	days := DaysBetween(now, scheduled)
	switch {
	case days < 1:
		return 0.4
	case days < 3:
		return 0.2
	case days > 30:
		return 0.3
	default:
		return 0.1
	}
}

// DaysBetween returns the number of calendar days from the date of a to the
// date of b, evaluated in a's location.
func DaysBetween(a, b time.Time) int {
	from := history.StartOfDay(a)
	to := history.StartOfDay(b.In(a.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// Level buckets a risk score.
func Level(score float64) models.RiskLevel {
	switch {
	case score < 0.2:
		return models.RiskLow
	case score < 0.4:
		return models.RiskModerate
	case score < 0.6:
		return models.RiskHigh
	default:
		return models.RiskVeryHigh
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
