// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata, so request structs can be validated on every call without
// reflection overhead beyond the first use.
//
// Field names in error messages come from the `query` struct tag (falling
// back to `json`), so a failed `Limit int `query:"limit" validate:"min=1,max=100"``
// reports "limit must be at most 100", matching the parameter the client sent.
//
// # Usage
//
//	type forecastParams struct {
//	    CategoryID int64  `query:"category_id" validate:"omitempty,gt=0"`
//	    City       string `query:"city" validate:"omitempty,max=100,cityname"`
//	    DaysAhead  int    `query:"days_ahead" validate:"min=1,max=90"`
//	}
//
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Validators
//
//   - cityname: letters, digits, spaces and the punctuation found in place
//     names (hyphen, apostrophe, period, comma)
package validation
