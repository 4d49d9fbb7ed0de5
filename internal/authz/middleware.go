// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package authz

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
	"github.com/tomtom215/servicebridge/internal/models"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
	access   *logging.AccessLogger
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		access:   logging.NewAccessLogger(),
	}
}

// AuthorizeRequest determines the action from the HTTP method and authorizes
// the subject's role against the request path.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := logging.SubjectFromContext(r.Context())
		if !ok {
			writeForbidden(w, "No authentication context")
			return
		}

		allowed, err := m.enforcer.Enforce(subject.Role, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		metrics.RecordAuthzDecision(subject.Role, allowed)

		if !allowed {
			m.access.LogAccessDenied(subject.Role, subject.ProfileID, r.Method, r.URL.Path, r.RemoteAddr)
			writeForbidden(w, "Insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwnProfile returns middleware that lets a subject with role address
// only the profile whose id is in the URL parameter param. Other roles pass
// through; path policies decide whether they may call the route at all.
func (m *Middleware) RequireOwnProfile(role, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := logging.SubjectFromContext(r.Context())
			if !ok || subject.Role != role {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || id != subject.ProfileID {
				metrics.RecordAuthzDecision(subject.Role, false)
				m.access.LogProfileMismatch(subject.Role, subject.ProfileID, r.URL.Path, r.RemoteAddr)
				writeForbidden(w, "Access to another profile is not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, "FORBIDDEN", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}
