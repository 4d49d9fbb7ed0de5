// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

//go:build nats

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides logging for marketplace event consumption.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a logger configured for event processing.
func NewEventLogger() *EventLogger {
	return NewEventLoggerWithLogger(Logger())
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value (copy-on-write semantics)
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "eventprocessor").Logger(),
	}
}

// Info logs an info message with key-value pairs.
func (e *EventLogger) Info(msg string, fields ...interface{}) {
	addFieldPairs(e.logger.Info(), fields).Msg(msg)
}

// Warn logs a warning message with key-value pairs.
func (e *EventLogger) Warn(msg string, fields ...interface{}) {
	addFieldPairs(e.logger.Warn(), fields).Msg(msg)
}

// loggerWithContext returns a logger with context fields added.
func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()
	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}
	return logCtx.Logger()
}

// LogEventReceived logs a consumed marketplace event.
func (e *EventLogger) LogEventReceived(ctx context.Context, eventID, eventType string, customerID int64) {
	l := e.loggerWithContext(ctx)
	l.Debug().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Int64("customer_id", customerID).
		Msg("event received")
}

// LogInvalidated logs the cache entries evicted for an event.
func (e *EventLogger) LogInvalidated(ctx context.Context, eventID string, customerID int64, removed int) {
	l := e.loggerWithContext(ctx)
	l.Info().
		Str("event_id", eventID).
		Int64("customer_id", customerID).
		Int("removed", removed).
		Msg("cached responses invalidated")
}

// LogEventFailed logs when event processing fails.
func (e *EventLogger) LogEventFailed(ctx context.Context, eventID string, err error) {
	l := e.loggerWithContext(ctx)
	l.Error().Str("event_id", eventID).Err(err).Msg("event processing failed")
}

// LogSubscriptionStarted logs when a subscription is started.
func (e *EventLogger) LogSubscriptionStarted(topic, queue string) {
	e.Info("subscription started", "topic", topic, "queue", queue)
}

// LogSubscriptionStopped logs when a subscription is stopped.
func (e *EventLogger) LogSubscriptionStopped(topic string) {
	e.Info("subscription stopped", "topic", topic)
}

// addFieldPairs adds key-value pairs to a zerolog event.
func addFieldPairs(ev *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	return ev
}
