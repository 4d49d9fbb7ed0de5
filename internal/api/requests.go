// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/validation"
)

// Optional parameters are pointers: nil means "use the engine default",
// while an explicit out-of-range value is rejected.

// LimitRequest is the query of list endpoints that only take a limit.
type LimitRequest struct {
	Limit *int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ProfessionalsRequest is the query of the professional recommendation endpoint.
type ProfessionalsRequest struct {
	CategoryID *int64 `query:"category_id" validate:"omitempty,min=1"`
	Limit      *int   `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ForecastRequest is the query of the demand forecast endpoint.
type ForecastRequest struct {
	CategoryID *int64 `query:"category_id" validate:"omitempty,min=1"`
	City       string `query:"city" validate:"omitempty,max=100,cityname"`
	DaysAhead  *int   `query:"days_ahead" validate:"omitempty,min=1,max=90"`
}

// PeakHoursRequest is the query of the peak hours endpoint.
type PeakHoursRequest struct {
	CategoryID *int64 `query:"category_id" validate:"omitempty,min=1"`
	City       string `query:"city" validate:"omitempty,max=100,cityname"`
	Limit      *int   `query:"limit" validate:"omitempty,min=1,max=24"`
}

// paramError is a malformed path or query parameter.
type paramError struct {
	name  string
	value string
	want  string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be %s", e.name, e.want)
}

func (e *paramError) toAPIError() *models.APIError {
	return &models.APIError{
		Code:    ErrCodeValidation,
		Message: e.Error(),
		Details: map[string]interface{}{
			"field": e.name,
			"value": e.value,
		},
	}
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, *models.APIError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, (&paramError{name: name, value: raw, want: "a positive integer"}).toAPIError()
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, *models.APIError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, (&paramError{name: name, value: raw, want: "an integer"}).toAPIError()
	}
	return &v, nil
}

// queryInt64 parses an optional 64-bit integer query parameter.
func queryInt64(r *http.Request, name string) (*int64, *models.APIError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, (&paramError{name: name, value: raw, want: "an integer"}).toAPIError()
	}
	return &v, nil
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// firstError returns the first non-nil error.
func firstError(errs ...*models.APIError) *models.APIError {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func respondBadRequest(w http.ResponseWriter, apiErr *models.APIError) {
	respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func int64OrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func parseLimitRequest(r *http.Request) (LimitRequest, *models.APIError) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return LimitRequest{}, err
	}
	req := LimitRequest{Limit: limit}
	return req, validateRequest(&req)
}

func parseProfessionalsRequest(r *http.Request) (ProfessionalsRequest, *models.APIError) {
	categoryID, err1 := queryInt64(r, "category_id")
	limit, err2 := queryInt(r, "limit")
	if err := firstError(err1, err2); err != nil {
		return ProfessionalsRequest{}, err
	}
	req := ProfessionalsRequest{CategoryID: categoryID, Limit: limit}
	return req, validateRequest(&req)
}

func parseForecastRequest(r *http.Request) (ForecastRequest, *models.APIError) {
	categoryID, err1 := queryInt64(r, "category_id")
	days, err2 := queryInt(r, "days_ahead")
	if err := firstError(err1, err2); err != nil {
		return ForecastRequest{}, err
	}
	req := ForecastRequest{
		CategoryID: categoryID,
		City:       strings.TrimSpace(r.URL.Query().Get("city")),
		DaysAhead:  days,
	}
	return req, validateRequest(&req)
}

func parsePeakHoursRequest(r *http.Request) (PeakHoursRequest, *models.APIError) {
	categoryID, err1 := queryInt64(r, "category_id")
	limit, err2 := queryInt(r, "limit")
	if err := firstError(err1, err2); err != nil {
		return PeakHoursRequest{}, err
	}
	req := PeakHoursRequest{
		CategoryID: categoryID,
		City:       strings.TrimSpace(r.URL.Query().Get("city")),
		Limit:      limit,
	}
	return req, validateRequest(&req)
}
