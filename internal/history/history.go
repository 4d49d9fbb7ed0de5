// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package history aggregates booking history into the rates, averages and
// windowed counts used by the recommendation engine and risk models.
//
// Rates fall back to a fixed prior when the observed sample is smaller than
// the configured minimum, so a single cancelled booking never reads as a
// 100% cancellation rate.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/models"
)

// Provider is the aggregate history capability injected into the engine and
// predictors. Test doubles may return canned values.
type Provider interface {
	// CustomerCancellationRate is the share of the customer's bookings that
	// the customer cancelled.
	CustomerCancellationRate(ctx context.Context, customerID int64) (float64, error)

	// ProfessionalIssueRate is the share of the professional's bookings that
	// were rejected or cancelled by the professional.
	ProfessionalIssueRate(ctx context.Context, professionalID int64) (float64, error)

	// CategoryCancellationRate is the share of the category's bookings that
	// were cancelled by anyone.
	CategoryCancellationRate(ctx context.Context, categoryID int64) (float64, error)

	// IsFirstTimePairing reports whether the pair has no completed booking.
	IsFirstTimePairing(ctx context.Context, customerID, professionalID int64) (bool, error)

	// CustomerAveragePrice is the mean estimated price of the customer's
	// completed bookings. ok is false when there is no priced booking.
	CustomerAveragePrice(ctx context.Context, customerID int64) (avg decimal.Decimal, ok bool, err error)

	// CompletionRates is completed/total bookings per professional.
	// Professionals without bookings map to 0.
	CompletionRates(ctx context.Context, professionalIDs []int64) (map[int64]float64, error)

	// WeeklyCounts returns one count per lookback week for bookings created
	// on the given weekday. Index 0 is the most recent week.
	WeeklyCounts(ctx context.Context, weekday time.Weekday, f Filter, now time.Time) ([]int, error)

	// HourlyCounts returns bookings per scheduled hour for bookings created
	// in the lookback window.
	HourlyCounts(ctx context.Context, f Filter, now time.Time) ([24]int, error)
}

// Filter scopes demand counts. Zero values mean "no filter".
type Filter struct {
	CategoryID int64  `json:"category_id,omitempty"`
	City       string `json:"city,omitempty"`
}

// Config holds the sample thresholds and priors.
type Config struct {
	CustomerMinSamples     int     `koanf:"customer_min_samples"`
	CustomerPrior          float64 `koanf:"customer_prior"`
	ProfessionalMinSamples int     `koanf:"professional_min_samples"`
	ProfessionalPrior      float64 `koanf:"professional_prior"`
	CategoryMinSamples     int     `koanf:"category_min_samples"`
	CategoryPrior          float64 `koanf:"category_prior"`
	LookbackWeeks          int     `koanf:"lookback_weeks"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		CustomerMinSamples:     3,
		CustomerPrior:          0.2,
		ProfessionalMinSamples: 5,
		ProfessionalPrior:      0.15,
		CategoryMinSamples:     10,
		CategoryPrior:          0.15,
		LookbackWeeks:          12,
	}
}

// Validate checks that thresholds are usable.
func (c Config) Validate() error {
	if c.CustomerMinSamples < 1 || c.ProfessionalMinSamples < 1 || c.CategoryMinSamples < 1 {
		return fmt.Errorf("minimum samples must be at least 1")
	}
	for name, p := range map[string]float64{
		"customer_prior":     c.CustomerPrior,
		"professional_prior": c.ProfessionalPrior,
		"category_prior":     c.CategoryPrior,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, p)
		}
	}
	if c.LookbackWeeks < 1 {
		return fmt.Errorf("lookback_weeks must be at least 1, got %d", c.LookbackWeeks)
	}
	return nil
}

// Aggregator implements Provider over a catalog.Reader.
type Aggregator struct {
	reader catalog.Reader
	cfg    Config
}

// NewAggregator returns an Aggregator. A zero cfg uses DefaultConfig.
func NewAggregator(reader catalog.Reader, cfg Config) *Aggregator {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Aggregator{reader: reader, cfg: cfg}
}

var _ Provider = (*Aggregator)(nil)

// bookings loads bookings and rejects any without mandatory references.
func (a *Aggregator) bookings(ctx context.Context, q catalog.BookingQuery) ([]models.Booking, error) {
	list, err := a.reader.Bookings(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckBookings(list); err != nil {
		return nil, err
	}
	return list, nil
}

// rateOrPrior returns hits/total, or prior when total is below minSamples.
func rateOrPrior(hits, total, minSamples int, prior float64) float64 {
	if total < minSamples {
		return prior
	}
	return float64(hits) / float64(total)
}

// CustomerCancellationRate implements Provider.
func (a *Aggregator) CustomerCancellationRate(ctx context.Context, customerID int64) (float64, error) {
	list, err := a.bookings(ctx, catalog.BookingQuery{CustomerIDs: []int64{customerID}})
	if err != nil {
		return 0, fmt.Errorf("customer %d bookings: %w", customerID, err)
	}
	hits := 0
	for i := range list {
		if list[i].Status == models.StatusCancelled && list[i].CancelledBy == models.PartyCustomer {
			hits++
		}
	}
	return rateOrPrior(hits, len(list), a.cfg.CustomerMinSamples, a.cfg.CustomerPrior), nil
}

// ProfessionalIssueRate implements Provider.
func (a *Aggregator) ProfessionalIssueRate(ctx context.Context, professionalID int64) (float64, error) {
	list, err := a.bookings(ctx, catalog.BookingQuery{ProfessionalIDs: []int64{professionalID}})
	if err != nil {
		return 0, fmt.Errorf("professional %d bookings: %w", professionalID, err)
	}
	hits := 0
	for i := range list {
		b := &list[i]
		if b.Status == models.StatusRejected ||
			(b.Status == models.StatusCancelled && b.CancelledBy == models.PartyProfessional) {
			hits++
		}
	}
	return rateOrPrior(hits, len(list), a.cfg.ProfessionalMinSamples, a.cfg.ProfessionalPrior), nil
}

// CategoryCancellationRate implements Provider.
func (a *Aggregator) CategoryCancellationRate(ctx context.Context, categoryID int64) (float64, error) {
	list, err := a.bookings(ctx, catalog.BookingQuery{CategoryIDs: []int64{categoryID}})
	if err != nil {
		return 0, fmt.Errorf("category %d bookings: %w", categoryID, err)
	}
	hits := 0
	for i := range list {
		if list[i].Status == models.StatusCancelled {
			hits++
		}
	}
	return rateOrPrior(hits, len(list), a.cfg.CategoryMinSamples, a.cfg.CategoryPrior), nil
}

// IsFirstTimePairing implements Provider.
func (a *Aggregator) IsFirstTimePairing(ctx context.Context, customerID, professionalID int64) (bool, error) {
	list, err := a.bookings(ctx, catalog.BookingQuery{
		CustomerIDs:     []int64{customerID},
		ProfessionalIDs: []int64{professionalID},
		Statuses:        []models.BookingStatus{models.StatusCompleted},
	})
	if err != nil {
		return false, fmt.Errorf("pairing %d/%d: %w", customerID, professionalID, err)
	}
	return len(list) == 0, nil
}

// CustomerAveragePrice implements Provider. Bookings without an estimated
// price are skipped.
func (a *Aggregator) CustomerAveragePrice(ctx context.Context, customerID int64) (decimal.Decimal, bool, error) {
	list, err := a.bookings(ctx, catalog.BookingQuery{
		CustomerIDs: []int64{customerID},
		Statuses:    []models.BookingStatus{models.StatusCompleted},
	})
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("customer %d completed bookings: %w", customerID, err)
	}
	prices := make([]decimal.Decimal, 0, len(list))
	for i := range list {
		if list[i].EstimatedPrice.Valid {
			prices = append(prices, list[i].EstimatedPrice.Decimal)
		}
	}
	if len(prices) == 0 {
		return decimal.Zero, false, nil
	}
	if len(prices) == 1 {
		return prices[0], true, nil
	}
	return decimal.Avg(prices[0], prices[1:]...), true, nil
}

// CompletionRates implements Provider.
func (a *Aggregator) CompletionRates(ctx context.Context, professionalIDs []int64) (map[int64]float64, error) {
	rates := make(map[int64]float64, len(professionalIDs))
	if len(professionalIDs) == 0 {
		return rates, nil
	}
	list, err := a.bookings(ctx, catalog.BookingQuery{ProfessionalIDs: professionalIDs})
	if err != nil {
		return nil, fmt.Errorf("professional bookings: %w", err)
	}

	total := make(map[int64]int, len(professionalIDs))
	completed := make(map[int64]int, len(professionalIDs))
	for i := range list {
		total[list[i].ProfessionalID]++
		if list[i].Status == models.StatusCompleted {
			completed[list[i].ProfessionalID]++
		}
	}
	for _, id := range professionalIDs {
		if total[id] > 0 {
			rates[id] = float64(completed[id]) / float64(total[id])
		} else {
			rates[id] = 0
		}
	}
	return rates, nil
}
