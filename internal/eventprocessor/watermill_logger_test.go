// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package eventprocessor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWatermillLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.With(watermill.LogFields{"handler": "cache-invalidation"}).
		Info("Starting handler", watermill.LogFields{"topic": "marketplace.booking"})
	logger.Error("Handler failed", errors.New("boom"), nil)
	logger.Debug("suppressed", nil)
	logger.Trace("suppressed", nil)

	out := buf.String()
	for _, want := range []string{
		`"handler":"cache-invalidation"`,
		`"topic":"marketplace.booking"`,
		`"error":"boom"`,
		`"level":"error"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "suppressed") {
		t.Errorf("debug and trace should be filtered at info level:\n%s", out)
	}
}
