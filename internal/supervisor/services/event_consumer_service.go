// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package services

import (
	"context"
	"fmt"
	"time"
)

// EventConsumer matches the Start/Shutdown lifecycle of
// eventprocessor.Invalidator.
type EventConsumer interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// EventConsumerService wraps an EventConsumer as a supervised service.
//
// If Start fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
type EventConsumerService struct {
	consumer        EventConsumer
	shutdownTimeout time.Duration
}

// NewEventConsumerService creates the service wrapper.
func NewEventConsumerService(consumer EventConsumer, shutdownTimeout time.Duration) *EventConsumerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventConsumerService{
		consumer:        consumer,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (s *EventConsumerService) Serve(ctx context.Context) error {
	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("event consumer start failed: %w", err)
	}

	<-ctx.Done()

	// Fresh context: the original is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.consumer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("event consumer shutdown failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (s *EventConsumerService) String() string {
	return "event-consumer"
}
