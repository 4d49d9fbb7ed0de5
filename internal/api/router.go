// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/servicebridge/internal/auth"
	"github.com/tomtom215/servicebridge/internal/authz"
	"github.com/tomtom215/servicebridge/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router. authn and authz may be nil, which serves every
// data endpoint without authentication or authorization.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authn:         authn,
		authz:         authzMW,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Data Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))
		if router.authn != nil {
			r.Use(router.authn.Authenticate)
		}
		if router.authz != nil {
			r.Use(router.authz.AuthorizeRequest)
		}

		r.Route("/customers/{customerID}", func(r chi.Router) {
			router.requireOwnProfile(r, auth.RoleCustomer, "customerID")
			r.Get("/recommendations/services", router.handler.RecommendServices)
			r.Get("/recommendations/professionals", router.handler.RecommendProfessionals)
			r.Get("/recommendations/categories", router.handler.RecommendCategories)
		})

		r.Route("/professionals/{professionalID}", func(r chi.Router) {
			router.requireOwnProfile(r, auth.RoleProfessional, "professionalID")
			r.Get("/suggested-categories", router.handler.SuggestedCategories)
		})

		r.Get("/services/{serviceID}/similar", router.handler.SimilarServices)
		r.Get("/services/{serviceID}/pricing-suggestion", router.handler.PricingSuggestion)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/cancellation-risk/{bookingID}", router.handler.CancellationRisk)
			r.Get("/demand-forecast", router.handler.DemandForecast)
			r.Get("/peak-hours", router.handler.PeakHours)
		})
	})

	return r
}

func (router *Router) requireOwnProfile(r chi.Router, role, param string) {
	if router.authz != nil {
		r.Use(router.authz.RequireOwnProfile(role, param))
	}
}
