// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AccessEvent is an authentication or authorization decision worth auditing.
type AccessEvent struct {
	// Event is the decision type, e.g. "token_rejected" or "access_denied".
	Event     string
	Role      string
	ProfileID int64
	Method    string
	Path      string
	IPAddress string
	UserAgent string
	// Reason is sanitized before logging.
	Reason string
}

// AccessLogger records access decisions with sensitive data removed.
type AccessLogger struct {
	logger zerolog.Logger
}

// NewAccessLogger creates an AccessLogger on the global logger.
func NewAccessLogger() *AccessLogger {
	return NewAccessLoggerWithLogger(Logger())
}

// NewAccessLoggerWithLogger creates an AccessLogger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAccessLoggerWithLogger(logger zerolog.Logger) *AccessLogger {
	return &AccessLogger{
		logger: logger.With().Str("component", "access").Logger(),
	}
}

// LogEvent writes event at warn level.
func (l *AccessLogger) LogEvent(event *AccessEvent) {
	e := l.logger.Warn().Str("event", event.Event)
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.ProfileID != 0 {
		e = e.Int64("profile_id", event.ProfileID)
	}
	if event.Method != "" {
		e = e.Str("method", event.Method)
	}
	if event.Path != "" {
		e = e.Str("path", event.Path)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Reason != "" {
		e = e.Str("reason", SanitizeError(event.Reason))
	}
	e.Msg("")
}

// LogTokenRejected records a bearer token that failed verification.
func (l *AccessLogger) LogTokenRejected(method, path, ip, userAgent, reason string) {
	l.LogEvent(&AccessEvent{
		Event:     "token_rejected",
		Method:    method,
		Path:      path,
		IPAddress: ip,
		UserAgent: userAgent,
		Reason:    reason,
	})
}

// LogAccessDenied records a policy denial for an authenticated caller.
func (l *AccessLogger) LogAccessDenied(role string, profileID int64, method, path, ip string) {
	l.LogEvent(&AccessEvent{
		Event:     "access_denied",
		Role:      role,
		ProfileID: profileID,
		Method:    method,
		Path:      path,
		IPAddress: ip,
	})
}

// LogProfileMismatch records a caller addressing another profile's resources.
func (l *AccessLogger) LogProfileMismatch(role string, profileID int64, path, ip string) {
	l.LogEvent(&AccessEvent{
		Event:     "profile_mismatch",
		Role:      role,
		ProfileID: profileID,
		Path:      path,
		IPAddress: ip,
	})
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

var sensitivePatterns = []string{
	"password",
	"secret",
	"bearer",
	"authorization",
	"eyj", // base64 JWT header
}

// SanitizeError replaces messages that may embed credentials and truncates
// the rest.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}
	return truncateString(msg, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
