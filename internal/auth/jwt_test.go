// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/servicebridge/internal/config"
)

const testSecret = "test-secret-with-at-least-32-characters!"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(&config.SecurityConfig{JWTSecret: testSecret, JWTIssuer: "servicebridge"})
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	t.Parallel()
	if _, err := NewVerifier(&config.SecurityConfig{}); err == nil {
		t.Error("NewVerifier() with empty secret should fail")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()
	v := newTestVerifier(t)

	tests := []struct {
		role      string
		profileID int64
	}{
		{RoleCustomer, 42},
		{RoleProfessional, 7},
		{RoleAdmin, 0},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			t.Parallel()
			token, err := v.GenerateToken(tt.role, tt.profileID, time.Hour)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			claims, err := v.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.Role != tt.role || claims.ProfileID != tt.profileID {
				t.Errorf("claims = %s/%d, want %s/%d", claims.Role, claims.ProfileID, tt.role, tt.profileID)
			}
		})
	}
}

func TestValidateTokenRejects(t *testing.T) {
	t.Parallel()
	v := newTestVerifier(t)
	now := time.Now()

	valid := func(role string, profileID int64) *Claims {
		return &Claims{
			Role:      role,
			ProfileID: profileID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "servicebridge",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
		}
	}

	expired := valid(RoleCustomer, 1)
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	noExpiry := valid(RoleCustomer, 1)
	noExpiry.ExpiresAt = nil

	wrongIssuer := valid(RoleCustomer, 1)
	wrongIssuer.Issuer = "someone-else"

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", signClaims(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-123"), valid(RoleCustomer, 1))},
		{"alg none", signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid(RoleAdmin, 0))},
		{"HS512", signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), valid(RoleCustomer, 1))},
		{"expired", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"no expiry", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{"wrong issuer", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{"unknown role", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), valid("superuser", 1))},
		{"customer without profile", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), valid(RoleCustomer, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := v.ValidateToken(tt.token)
			if err == nil {
				t.Fatal("ValidateToken() should fail")
			}
			if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrMissingToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken or ErrMissingToken", err)
			}
		})
	}
}

func TestGenerateTokenRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	if _, err := newTestVerifier(t).GenerateToken("root", 1, time.Minute); err == nil {
		t.Error("GenerateToken() with unknown role should fail")
	}
}
