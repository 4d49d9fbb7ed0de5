// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package main provides the Servicebridge HTTP server
//
// @title Servicebridge API
// @version 1.0
// @description Recommendation and predictive analytics for a local services marketplace
// @description
// @description ## Features
// @description
// @description - **Service recommendations**: hybrid ranking from collaborative, content, location and popularity signals
// @description - **Professional and category recommendations** for customers
// @description - **Similar services** and **pricing suggestions** for a service
// @description - **Cancellation risk** scores for bookings
// @description - **Demand forecasts** and **peak hours** by category and city
// @description
// @description ## Authentication
// @description
// @description With AUTH_MODE=jwt every /api/v1 endpoint except health requires an HS256 bearer token.
// @description Customers and professionals may only read their own profile's recommendations.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "NOT_FOUND",
// @description     "message": "Customer not found",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-03-01T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/servicebridge/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token signed with JWT_SECRET. Claims: role, profile_id.
//
// @tag.name Recommendations
// @tag.description Ranked services, professionals and categories
//
// @tag.name Analytics
// @tag.description Cancellation risk, demand forecasts and peak hours
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
