// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if i := strings.LastIndex(line, "\n"); i >= 0 {
		line = line[i+1:]
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return out
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	Warn().Str("key", "value").Msg("kept")
	got := decodeLine(t, &buf)
	if got["message"] != "kept" || got["key"] != "value" || got["service"] != "servicebridge" {
		t.Errorf("log line = %v", got)
	}
	if got["level"] != "warn" {
		t.Errorf("level = %v, want warn", got["level"])
	}
	if GetLevel() != zerolog.WarnLevel {
		t.Errorf("GetLevel() = %v, want warn", GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCtxFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithSubject(ctx, Subject{Role: "customer", ProfileID: 42})

	Ctx(ctx).Info().Msg("hello")
	got := decodeLine(t, &buf)
	if got["request_id"] != "req-1" || got["correlation_id"] != "corr-1" {
		t.Errorf("ids missing: %v", got)
	}
	if got["role"] != "customer" || got["profile_id"] != float64(42) {
		t.Errorf("subject missing: %v", got)
	}

	buf.Reset()
	CtxErr(ctx, errors.New("boom")).Msg("failed")
	if got := decodeLine(t, &buf); got["error"] != "boom" {
		t.Errorf("error field = %v", got["error"])
	}
}

func TestCtxWithoutValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	Ctx(ctx).Info().Msg("plain")
	got := decodeLine(t, &buf)
	for _, key := range []string{"request_id", "correlation_id", "role"} {
		if _, ok := got[key]; ok {
			t.Errorf("unexpected %s in %v", key, got)
		}
	}
	if RequestIDFromContext(context.Background()) != "" || CorrelationIDFromContext(context.Background()) != "" {
		t.Error("empty context should carry no ids")
	}
}

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if got := GenerateCorrelationID(); len(got) != 8 {
		t.Errorf("correlation id %q should have 8 characters", got)
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 || a == b {
		t.Errorf("request ids %q and %q should be distinct UUIDs", a, b)
	}
}

func TestSlogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.WithGroup("tree").With("service", "api").Warn("restarting", "attempt", 3)
	got := decodeLine(t, &buf)
	if got["level"] != "warn" || got["message"] != "restarting" {
		t.Errorf("log line = %v", got)
	}
	if got["tree.service"] != "api" || got["tree.attempt"] != float64(3) {
		t.Errorf("grouped attrs = %v", got)
	}

	buf.Reset()
	logger.Info("nested", slog.Group("outer", slog.Group("inner", slog.Bool("ok", true))))
	if got := decodeLine(t, &buf); got["outer.inner.ok"] != true {
		t.Errorf("nested group key missing: %v", got)
	}
}

func TestSlogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := zerologLevel(tt.in); got != tt.want {
			t.Errorf("zerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}

func TestAccessLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewAccessLoggerWithLogger(NewTestLogger(&buf))

	l.LogTokenRejected("GET", "/api/v1/customers/1/recommendations/services", "10.0.0.1", "curl/8",
		"token eyJhbGciOiJIUzI1NiJ9.payload is expired")
	got := decodeLine(t, &buf)
	if got["event"] != "token_rejected" || got["component"] != "access" {
		t.Errorf("log line = %v", got)
	}
	if got["reason"] != "authentication error" {
		t.Errorf("reason should be sanitized, got %v", got["reason"])
	}

	buf.Reset()
	l.LogAccessDenied("professional", 7, "GET", "/api/v1/customers/1/recommendations/services", "10.0.0.1")
	got = decodeLine(t, &buf)
	if got["role"] != "professional" || got["profile_id"] != float64(7) || got["event"] != "access_denied" {
		t.Errorf("log line = %v", got)
	}

	buf.Reset()
	l.LogProfileMismatch("customer", 3, "/api/v1/customers/4/recommendations/services", "")
	if got := decodeLine(t, &buf); got["event"] != "profile_mismatch" {
		t.Errorf("log line = %v", got)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tokens := map[string]string{
		"":                          "",
		"short":                     "***",
		"eyJhbGciOiJIUzI1NiIsInR5c": "eyJh...nR5c",
	}
	for in, want := range tokens {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}

	if got := SanitizeError("signature is invalid"); got != "signature is invalid" {
		t.Errorf("SanitizeError kept message = %q", got)
	}
	if got := SanitizeError("bad Bearer header"); got != "authentication error" {
		t.Errorf("SanitizeError(bearer) = %q", got)
	}
	if got := SanitizeError(strings.Repeat("x", 300)); len(got) != 203 {
		t.Errorf("SanitizeError should truncate to 200 characters plus ellipsis, got %d", len(got))
	}
}
