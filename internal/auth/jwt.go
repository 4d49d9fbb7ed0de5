// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/servicebridge/internal/config"
)

// Marketplace roles carried in the role claim.
const (
	RoleCustomer     = "customer"
	RoleProfessional = "professional"
	RoleAdmin        = "admin"
)

// clockSkew is the leeway applied to exp, nbf and iat.
const clockSkew = 30 * time.Second

var (
	// ErrMissingToken means the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken means the token failed signature, expiry or claim checks.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents JWT claims
type Claims struct {
	Role      string `json:"role"`
	ProfileID int64  `json:"profile_id"`
	jwt.RegisteredClaims
}

// ValidRole reports whether role is one of the marketplace roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

// Verifier validates HS256 tokens against a shared secret.
type Verifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewVerifier creates a Verifier from the security configuration.
// An empty secret is rejected; length requirements are checked by
// config.Validate.
func NewVerifier(cfg *config.SecurityConfig) (*Verifier, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}

	return &Verifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		parser: jwt.NewParser(opts...),
	}, nil
}

// ValidateToken verifies tokenString and returns its claims.
//
// Besides the registered claims, the role must be a marketplace role and
// customer and professional tokens must name a positive profile id.
func (v *Verifier) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if !ValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	if claims.Role != RoleAdmin && claims.ProfileID <= 0 {
		return nil, fmt.Errorf("%w: %s token without profile_id", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

// GenerateToken signs a token for role and profileID valid for ttl.
func (v *Verifier) GenerateToken(role string, profileID int64, ttl time.Duration) (string, error) {
	if !ValidRole(role) {
		return "", fmt.Errorf("unknown role %q", role)
	}
	now := time.Now()
	claims := &Claims{
		Role:      role,
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
