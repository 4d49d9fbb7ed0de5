// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/logging"
)

// RequestLogger writes one log line per request. Server errors log at error,
// client errors at warn, everything else at debug so that health probes do
// not flood production logs.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		var ev *zerolog.Event
		logger := logging.Ctx(r.Context())
		switch {
		case rec.statusCode >= http.StatusInternalServerError:
			ev = logger.Error()
		case rec.statusCode >= http.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Debug()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.statusCode).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request")
	})
}
