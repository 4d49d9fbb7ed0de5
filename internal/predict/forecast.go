// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package predict

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// dateLayout is the ISO 8601 calendar date format of forecast points.
const dateLayout = "2006-01-02"

// ForecastRequest scopes a demand forecast. Zero values mean no filter and
// the default horizon.
type ForecastRequest struct {
	CategoryID int64  `json:"category_id,omitempty"`
	City       string `json:"city,omitempty"`
	DaysAhead  int    `json:"days_ahead,omitempty"`
}

// Forecaster predicts booking demand from weekly history.
type Forecaster struct {
	cfg     ForecastConfig
	history history.Provider
	logger  zerolog.Logger
	now     func() time.Time
}

// NewForecaster creates a demand forecaster. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewForecaster(cfg *Config, hist history.Provider, logger zerolog.Logger) (*Forecaster, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if hist == nil {
		return nil, fmt.Errorf("history provider is required")
	}
	return &Forecaster{
		cfg:     cfg.Forecast,
		history: hist,
		logger:  logger.With().Str("component", "forecast").Logger(),
		now:     time.Now,
	}, nil
}

// SetClock replaces the time source. Intended for tests.
func (f *Forecaster) SetClock(now func() time.Time) {
	f.now = now
}

// Horizon applies the default and the maximum to a requested day count.
func (f *Forecaster) Horizon(days int) int {
	if days <= 0 {
		return f.cfg.DefaultDays
	}
	if days > f.cfg.MaxDays {
		return f.cfg.MaxDays
	}
	return days
}

// Forecast returns one point per day starting today. Days sharing a weekday
// share the same weekly history.
func (f *Forecaster) Forecast(ctx context.Context, req ForecastRequest) (_ []models.DemandForecastPoint, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("demand_forecast", time.Since(start), err) }()

	now := f.now()
	today := history.StartOfDay(now)
	filter := history.Filter{CategoryID: req.CategoryID, City: req.City}
	days := f.Horizon(req.DaysAhead)

	byWeekday := make(map[time.Weekday][]int, 7)
	points := make([]models.DemandForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i)
		weekday := day.Weekday()

		counts, ok := byWeekday[weekday]
		if !ok {
			counts, err = f.history.WeeklyCounts(ctx, weekday, filter, now)
			if err != nil {
				return nil, fmt.Errorf("weekly counts for %s: %w", weekday, err)
			}
			byWeekday[weekday] = counts
		}

		total := sum(counts)
		predicted := 0.0
		if len(counts) > 0 {
			predicted = round(float64(total)/float64(len(counts)), 1)
		}
		points = append(points, models.DemandForecastPoint{
			Date:           day.Format(dateLayout),
			Weekday:        weekday.String(),
			PredictedCount: predicted,
			Confidence:     f.confidence(total),
			Trend:          f.trend(counts),
			SampleTotal:    total,
		})
	}

	f.logger.Debug().
		Int64("category_id", req.CategoryID).
		Str("city", req.City).
		Int("days", days).
		Msg("demand forecast computed")

	return points, nil
}

// trend compares the mean of the most recent TrendWeeks with the mean of the
// oldest TrendWeeks. counts[0] is the most recent week. Growth from an empty
// baseline is INCREASING.
func (f *Forecaster) trend(counts []int) models.Trend {
	n := f.cfg.TrendWeeks
	if n > len(counts) {
		n = len(counts)
	}
	if n == 0 {
		return models.TrendStable
	}
	recent := float64(sum(counts[:n])) / float64(n)
	oldest := float64(sum(counts[len(counts)-n:])) / float64(n)

	switch {
	case recent > oldest*(1+f.cfg.TrendThreshold):
		return models.TrendIncreasing
	case recent < oldest*(1-f.cfg.TrendThreshold):
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func (f *Forecaster) confidence(total int) models.Confidence {
	switch {
	case total > f.cfg.HighConfidence:
		return models.ConfidenceHigh
	case total > f.cfg.MediumConfidence:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// PeakHours returns the busiest scheduled hours over the lookback window,
// busiest first, ties by ascending hour. Hours without bookings are omitted.
func (f *Forecaster) PeakHours(ctx context.Context, filter history.Filter, limit int) (_ []models.PeakHour, err error) {
	start := time.Now()
	defer func() { metrics.RecordEngineOperation("peak_hours", time.Since(start), err) }()

	if limit <= 0 {
		limit = f.cfg.DefaultPeakHours
	}

	counts, err := f.history.HourlyCounts(ctx, filter, f.now())
	if err != nil {
		return nil, fmt.Errorf("hourly counts: %w", err)
	}

	total := sum(counts[:])
	out := make([]models.PeakHour, 0, limit)
	if total == 0 {
		return out, nil
	}
	for hour, c := range counts {
		if c > 0 {
			out = append(out, models.PeakHour{
				Hour:     hour,
				Bookings: c,
				Share:    round(float64(c)/float64(total), 3),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bookings > out[j].Bookings
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
