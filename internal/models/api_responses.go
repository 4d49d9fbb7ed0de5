// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "Booking not found"
//	  },
//	  "metadata": {"timestamp": "2026-10-19T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing and cache information.
//
// Query time tracking:
//   - Cached responses: QueryTimeMS is 0, Cached is true
//   - Fresh results: QueryTimeMS is the engine computation time
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error body.
//
// Error codes:
//   - VALIDATION_ERROR: Invalid path or query parameters
//   - NOT_FOUND: Customer, professional, service or booking does not exist
//   - INSUFFICIENT_DATA: Not enough market data to compute a result
//   - DATA_INTEGRITY: Marketplace data violates a required reference
//   - AUTHENTICATION_ERROR: Invalid or missing bearer token
//   - AUTHORIZATION_ERROR: Role or profile not permitted
//   - TIMEOUT: Request exceeded the computation deadline
//   - INTERNAL_ERROR: Anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ListResponse is the payload of list endpoints. Key is the JSON field the
// items are published under ("recommendations", "similar_services", ...).
type ListResponse struct {
	Count int         `json:"count"`
	Items interface{} `json:"-"`
	Key   string      `json:"-"`
}

// MarshalJSON renders {"count": n, "<key>": items}.
func (l ListResponse) MarshalJSON() ([]byte, error) {
	key := l.Key
	if key == "" {
		key = "items"
	}
	return marshalJSON(map[string]interface{}{
		"count": l.Count,
		key:     l.Items,
	})
}

// HealthStatus is the body of the readiness endpoint.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	StoreReady    bool    `json:"store_ready"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
