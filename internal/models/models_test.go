// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		valid bool
		got   bool
	}{
		{"verified", true, VerificationVerified.Valid()},
		{"unknown verification", false, VerificationStatus("MAYBE").Valid()},
		{"completed", true, StatusCompleted.Valid()},
		{"in progress", true, StatusInProgress.Valid()},
		{"lowercase status", false, BookingStatus("completed").Valid()},
		{"no party", true, PartyNone.Valid()},
		{"professional party", true, PartyProfessional.Valid()},
		{"unknown party", false, Party("SYSTEM").Valid()},
		{"empty pricing type", true, PricingType("").Valid()},
		{"unknown pricing type", false, PricingType("WEEKLY").Valid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.valid {
				t.Errorf("Valid() = %v, want %v", tt.got, tt.valid)
			}
		})
	}
}

func TestProfessionalEligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pro  Professional
		want bool
	}{
		{"active verified", Professional{Active: true, Verification: VerificationVerified}, true},
		{"inactive verified", Professional{Active: false, Verification: VerificationVerified}, false},
		{"active pending", Professional{Active: true, Verification: VerificationPending}, false},
		{"active rejected", Professional{Active: true, Verification: VerificationRejected}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.pro.Eligible(); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfessionalOffersCategory(t *testing.T) {
	t.Parallel()

	p := Professional{CategoryIDs: []int64{3, 7}}
	if !p.OffersCategory(7) {
		t.Error("expected category 7 to be offered")
	}
	if p.OffersCategory(4) {
		t.Error("did not expect category 4 to be offered")
	}
}

func TestBookingReferences(t *testing.T) {
	t.Parallel()

	ok := Booking{CustomerID: 1, ProfessionalID: 2, ServiceID: 3}
	if !ok.References() {
		t.Error("complete booking reported missing references")
	}
	missing := Booking{ProfessionalID: 2, ServiceID: 3}
	if missing.References() {
		t.Error("booking without customer reported complete references")
	}
}

func TestRiskAssessmentFactor(t *testing.T) {
	t.Parallel()

	r := RiskAssessment{Factors: []RiskFactor{{Name: "lead_time", Score: 0.4, Weight: 0.15}}}
	if s, ok := r.Factor("lead_time"); !ok || s != 0.4 {
		t.Errorf("Factor(lead_time) = (%v, %v)", s, ok)
	}
	if _, ok := r.Factor("first_time"); ok {
		t.Error("Factor(first_time) should be absent")
	}
}

func TestListResponseMarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list ListResponse
		want []string
	}{
		{
			name: "recommendations key",
			list: ListResponse{Count: 1, Key: "recommendations", Items: []CategoryRecommendation{{ID: 1, Name: "Plumbing"}}},
			want: []string{`"count":1`, `"recommendations":[`, `"name":"Plumbing"`},
		},
		{
			name: "empty list keeps count",
			list: ListResponse{Count: 0, Key: "similar_services", Items: []SimilarService{}},
			want: []string{`"count":0`, `"similar_services":[]`},
		},
		{
			name: "default key",
			list: ListResponse{Count: 0, Items: []int{}},
			want: []string{`"items":[]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(tt.list)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			for _, fragment := range tt.want {
				if !strings.Contains(string(data), fragment) {
					t.Errorf("Marshal() = %s, missing %s", data, fragment)
				}
			}
		})
	}
}
