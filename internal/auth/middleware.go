// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// Middleware authenticates requests with bearer tokens.
type Middleware struct {
	verifier *Verifier
	authMode string
	access   *logging.AccessLogger
}

// NewMiddleware creates a new authentication middleware. verifier may be nil
// when authMode is "none".
func NewMiddleware(verifier *Verifier, authMode string) *Middleware {
	return &Middleware{
		verifier: verifier,
		authMode: authMode,
		access:   logging.NewAccessLogger(),
	}
}

// Authenticate is middleware that enforces authentication
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode != config.AuthModeJWT {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.verifier.ValidateToken(bearerToken(r))
		if err != nil {
			reason := "invalid"
			if errors.Is(err, ErrMissingToken) {
				reason = "missing"
			}
			metrics.RecordTokenRejected(reason)
			m.access.LogTokenRejected(r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent(), err.Error())

			w.Header().Set("WWW-Authenticate", `Bearer realm="servicebridge"`)
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Valid bearer token required")
			return
		}

		ctx := logging.ContextWithSubject(r.Context(), logging.Subject{
			Role:      claims.Role,
			ProfileID: claims.ProfileID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// writeError renders the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}
