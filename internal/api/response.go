// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/models"
	"github.com/tomtom215/servicebridge/internal/recommend"
)

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInsufficientData = "INSUFFICIENT_DATA"
	ErrCodeDataIntegrity    = "DATA_INTEGRITY"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeCanceled         = "REQUEST_CANCELED"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding, Authorization")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak ETag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `W/"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondSuccess sends data in a success envelope.
func respondSuccess(w http.ResponseWriter, data interface{}, queryTime time.Duration, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryTime.Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondEngineError maps an engine error to its HTTP status. subject names
// the record the request addressed ("customer", "booking", ...).
func respondEngineError(w http.ResponseWriter, r *http.Request, subject string, err error) {
	log := logging.Ctx(r.Context())

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, capitalize(subject)+" not found", nil)
	case errors.Is(err, recommend.ErrInsufficientData):
		respondError(w, http.StatusUnprocessableEntity, ErrCodeInsufficientData,
			"Not enough market data to compute a result", nil)
	case errors.Is(err, catalog.ErrIntegrity):
		log.Error().Err(err).Msg("Marketplace data integrity violation")
		respondError(w, http.StatusInternalServerError, ErrCodeDataIntegrity,
			"Marketplace data is inconsistent", nil)
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Msg("Request timed out")
		respondError(w, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", nil)
	case errors.Is(err, context.Canceled):
		log.Debug().Err(err).Msg("Request canceled by client")
		respondError(w, http.StatusServiceUnavailable, ErrCodeCanceled, "Request canceled", nil)
	default:
		log.Error().Err(err).Msg("Engine error")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
