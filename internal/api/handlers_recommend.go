// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/models"
)

// recommendationParams is hashed into the cache key of list endpoints.
type recommendationParams struct {
	ID         int64 `json:"id"`
	CategoryID int64 `json:"category_id,omitempty"`
	Limit      int   `json:"limit"`
}

// RecommendServices returns services ranked for a customer.
//
// @Summary Recommended services
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param customerID path int true "Customer ID"
// @Param limit query int false "Maximum results (1-100)" default(10)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Failure 404 {object} models.APIResponse "Customer not found"
// @Router /customers/{customerID}/recommendations/services [get]
func (h *Handler) RecommendServices(w http.ResponseWriter, r *http.Request) {
	customerID, apiErr := pathID(r, "customerID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	req, apiErr := parseLimitRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	limit := intOrZero(req.Limit)

	h.executor.Execute(w, r, Query{
		Scope:     cache.CustomerScope(customerID),
		Operation: "recommend_services",
		Params:    recommendationParams{ID: customerID, Limit: limit},
		Subject:   "customer",
	}, func(ctx context.Context) (interface{}, error) {
		recs, err := h.recommender.RecommendServices(ctx, customerID, limit)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(recs), Items: recs, Key: "recommendations"}, nil
	})
}

// RecommendProfessionals returns professionals ranked for a customer,
// optionally restricted to one category.
//
// @Summary Recommended professionals
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param customerID path int true "Customer ID"
// @Param category_id query int false "Category filter"
// @Param limit query int false "Maximum results (1-100)" default(10)
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Customer not found"
// @Router /customers/{customerID}/recommendations/professionals [get]
func (h *Handler) RecommendProfessionals(w http.ResponseWriter, r *http.Request) {
	customerID, apiErr := pathID(r, "customerID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	req, apiErr := parseProfessionalsRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	categoryID := int64OrZero(req.CategoryID)
	limit := intOrZero(req.Limit)

	h.executor.Execute(w, r, Query{
		Scope:     cache.CustomerScope(customerID),
		Operation: "recommend_professionals",
		Params:    recommendationParams{ID: customerID, CategoryID: categoryID, Limit: limit},
		Subject:   "customer",
	}, func(ctx context.Context) (interface{}, error) {
		recs, err := h.recommender.RecommendProfessionals(ctx, customerID, categoryID, limit)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(recs), Items: recs, Key: "recommendations"}, nil
	})
}

// RecommendCategories returns categories the customer has not booked yet.
//
// @Summary Recommended categories
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param customerID path int true "Customer ID"
// @Param limit query int false "Maximum results (1-100)" default(5)
// @Success 200 {object} models.APIResponse
// @Router /customers/{customerID}/recommendations/categories [get]
func (h *Handler) RecommendCategories(w http.ResponseWriter, r *http.Request) {
	customerID, apiErr := pathID(r, "customerID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	req, apiErr := parseLimitRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	limit := intOrZero(req.Limit)

	h.executor.Execute(w, r, Query{
		Scope:     cache.CustomerScope(customerID),
		Operation: "recommend_categories",
		Params:    recommendationParams{ID: customerID, Limit: limit},
		Subject:   "customer",
	}, func(ctx context.Context) (interface{}, error) {
		recs, err := h.recommender.RecommendCategories(ctx, customerID, limit)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(recs), Items: recs, Key: "recommendations"}, nil
	})
}

// SimilarServices returns services similar to the given one. An unknown
// service yields an empty list.
//
// @Summary Similar services
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param serviceID path int true "Service ID"
// @Param limit query int false "Maximum results (1-100)" default(5)
// @Success 200 {object} models.APIResponse
// @Router /services/{serviceID}/similar [get]
func (h *Handler) SimilarServices(w http.ResponseWriter, r *http.Request) {
	serviceID, apiErr := pathID(r, "serviceID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	req, apiErr := parseLimitRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	limit := intOrZero(req.Limit)

	h.executor.Execute(w, r, Query{
		Scope:     cache.GlobalScope,
		Operation: "similar_services",
		Params:    recommendationParams{ID: serviceID, Limit: limit},
		Subject:   "service",
	}, func(ctx context.Context) (interface{}, error) {
		similar, err := h.recommender.SimilarServices(ctx, serviceID, limit)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(similar), Items: similar, Key: "similar_services"}, nil
	})
}

// SuggestedCategories returns categories a professional could expand into.
//
// @Summary Suggested categories
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param professionalID path int true "Professional ID"
// @Param limit query int false "Maximum results (1-100)" default(5)
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Professional not found"
// @Router /professionals/{professionalID}/suggested-categories [get]
func (h *Handler) SuggestedCategories(w http.ResponseWriter, r *http.Request) {
	professionalID, apiErr := pathID(r, "professionalID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	req, apiErr := parseLimitRequest(r)
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}
	limit := intOrZero(req.Limit)

	h.executor.Execute(w, r, Query{
		Scope:     cache.GlobalScope,
		Operation: "suggested_categories",
		Params:    recommendationParams{ID: professionalID, Limit: limit},
		Subject:   "professional",
	}, func(ctx context.Context) (interface{}, error) {
		recs, err := h.recommender.SuggestedCategories(ctx, professionalID, limit)
		if err != nil {
			return nil, err
		}
		return models.ListResponse{Count: len(recs), Items: recs, Key: "recommendations"}, nil
	})
}

// PricingSuggestion returns a market-based price for a service.
//
// @Summary Pricing suggestion
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param serviceID path int true "Service ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Service not found"
// @Failure 422 {object} models.APIResponse "Not enough comparable services"
// @Router /services/{serviceID}/pricing-suggestion [get]
func (h *Handler) PricingSuggestion(w http.ResponseWriter, r *http.Request) {
	serviceID, apiErr := pathID(r, "serviceID")
	if apiErr != nil {
		respondBadRequest(w, apiErr)
		return
	}

	h.executor.Execute(w, r, Query{
		Scope:     cache.GlobalScope,
		Operation: "pricing_suggestion",
		Params:    recommendationParams{ID: serviceID},
		Subject:   "service",
	}, func(ctx context.Context) (interface{}, error) {
		return h.recommender.OptimalPricing(ctx, serviceID)
	})
}
