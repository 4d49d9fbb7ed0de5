// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package models defines the value types shared across servicebridge.

Read models (Customer, Professional, Service, Booking, Category) are
constructed by the marketplace data layer and are never mutated by the
engine. Result types (ServiceRecommendation, RiskAssessment,
DemandForecastPoint and friends) are what the HTTP layer serializes.

Prices use shopspring/decimal so that averages and suggestions keep cent
precision; scoring converts them to float64 only at the point of use.

The API envelope (APIResponse, Metadata, APIError) is shared by every
endpoint:

	{
	  "status": "success",
	  "data": {"count": 2, "recommendations": [...]},
	  "metadata": {"timestamp": "2026-10-19T12:00:00Z", "query_time_ms": 12}
	}
*/
package models
