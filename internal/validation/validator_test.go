// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type listParams struct {
	Limit      int    `query:"limit" validate:"min=1,max=100"`
	CategoryID int64  `query:"category_id" validate:"omitempty,gt=0"`
	City       string `query:"city" validate:"omitempty,max=20,cityname"`
	DaysAhead  int    `json:"days_ahead" validate:"min=1,max=90"`
	Internal   string `json:"-"`
}

func validParams() listParams {
	return listParams{Limit: 10, DaysAhead: 7}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*listParams)
		wantField string
		wantMsg   string
	}{
		{name: "defaults", mutate: func(*listParams) {}},
		{name: "upper bounds", mutate: func(p *listParams) { p.Limit = 100; p.DaysAhead = 90 }},
		{name: "city with punctuation", mutate: func(p *listParams) { p.City = "St. John's" }},
		{name: "city with umlaut", mutate: func(p *listParams) { p.City = "München" }},
		{
			name:      "limit too small",
			mutate:    func(p *listParams) { p.Limit = 0 },
			wantField: "limit",
			wantMsg:   "limit must be at least 1",
		},
		{
			name:      "limit too large",
			mutate:    func(p *listParams) { p.Limit = 101 },
			wantField: "limit",
			wantMsg:   "limit must be at most 100",
		},
		{
			name:      "days ahead uses json name",
			mutate:    func(p *listParams) { p.DaysAhead = 91 },
			wantField: "days_ahead",
			wantMsg:   "days_ahead must be at most 90",
		},
		{
			name:      "negative category",
			mutate:    func(p *listParams) { p.CategoryID = -1 },
			wantField: "category_id",
			wantMsg:   "category_id must be greater than 0",
		},
		{
			name:      "city too long",
			mutate:    func(p *listParams) { p.City = strings.Repeat("a", 21) },
			wantField: "city",
			wantMsg:   "city must be at most 20 characters",
		},
		{
			name:      "city with markup",
			mutate:    func(p *listParams) { p.City = "<script>" },
			wantField: "city",
			wantMsg:   "city contains characters not allowed in a city name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			tt.mutate(&p)

			verr := ValidateStruct(&p)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&listParams{Limit: 0, DaysAhead: 7}).ToAPIError()
	if single.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", single.Code)
	}
	if single.Details["field"] != "limit" {
		t.Errorf("Details[field] = %v, want limit", single.Details["field"])
	}

	multi := ValidateStruct(&listParams{Limit: 0, DaysAhead: 0}).ToAPIError()
	if !strings.Contains(multi.Message, "limit") || !strings.Contains(multi.Message, "days_ahead") {
		t.Errorf("Message = %q, want both fields", multi.Message)
	}
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v, want 2 entries", multi.Details["fields"])
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}

func TestValidateStructNonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil || verr.Errors()[0].Field() != "unknown" {
		t.Fatalf("ValidateStruct(string) = %v, want unknown-field error", verr)
	}
}
