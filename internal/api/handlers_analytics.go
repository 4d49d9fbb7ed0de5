// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/history"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/predict"
)

// CancellationRisk scores one booking for cancellation risk.
//
// Assessments are cached globally; a booking edited within the cache TTL may
// be served a stale score.
//
// @Summary Cancellation risk
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param bookingID path int true "Booking ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Booking not found"
// @Router /analytics/cancellation-risk/{bookingID} [get]
func (h *Handler) CancellationRisk(w http.ResponseWriter, r *http.Request) {
	bookingID, apiErr := pathID(r, "bookingID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}

	h.executor.Execute(w, r, Query{
		Scope:     cache.GlobalScope,
		Operation: "cancellation_risk",
		Params:    recommendationParams{ID: bookingID},
		Subject:   "booking",
	}, func(ctx context.Context) (interface{}, error) {
		return h.risk.Predict(ctx, bookingID)
	})
}

// DemandForecast predicts daily booking counts.
//
// @Summary Demand forecast
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Category filter"
// @Param city query string false "City filter"
// @Param days_ahead query int false "Forecast horizon in days (1-90)" default(7)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Router /analytics/demand-forecast [get]
func (h *Handler) DemandForecast(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseForecastRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	forecastReq := predict.ForecastRequest{
		CategoryID: int64OrZero(req.CategoryID),
		City:       req.City,
		DaysAhead:  intOrZero(req.DaysAhead),
	}

	h.executor.Execute(w, r, Query{
		Scope:     cache.GlobalScope,
		Operation: "demand_forecast",
		Params:    forecastReq,
	}, func(ctx context.Context) (interface{}, error) {
		points, err := h.forecaster.Forecast(ctx, forecastReq)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(points), Items: points, Key: "forecast"}, nil
	})
}

// PeakHours returns the busiest scheduled hours of the day.
//
// @Summary Peak booking hours
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Category filter"
// @Param city query string false "City filter"
// @Param limit query int false "Number of hours (1-24)" default(5)
// @Success 200 {object} models.APIResponse
// @Router /analytics/peak-hours [get]
func (h *Handler) PeakHours(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parsePeakHoursRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	filter := history.Filter{CategoryID: int64OrZero(req.CategoryID), City: req.City}
	limit := intOrZero(req.Limit)

	h.executor.Execute(w, r, Query{
		Scope:     cache.GlobalScope,
		Operation: "peak_hours",
		Params: struct {
			history.Filter
			Limit int `json:"limit"`
		}{filter, limit},
	}, func(ctx context.Context) (interface{}, error) {
		hours, err := h.forecaster.PeakHours(ctx, filter, limit)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(hours), Items: hours, Key: "peak_hours"}, nil
	})
}
