// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/servicebridge/internal/config"
)

// SubscriberConfig holds JetStream consumer and router settings.
type SubscriberConfig struct {
	URL         string
	Subject     string
	StreamName  string
	DurableName string
	QueueGroup  string

	// SubscribersCount is the number of concurrent message processors.
	// Eviction is idempotent, so out-of-order processing is harmless.
	SubscribersCount int

	AckWaitTimeout time.Duration
	MaxDeliver     int
	MaxAckPending  int
	CloseTimeout   time.Duration

	MaxReconnects int
	ReconnectWait time.Duration

	// Retry applies inside one delivery, before the message is nacked.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultSubscriberConfig returns production defaults.
func DefaultSubscriberConfig() SubscriberConfig {
	return SubscriberConfig{
		URL:                  "nats://127.0.0.1:4222",
		Subject:              "marketplace.>",
		StreamName:           "MARKETPLACE",
		DurableName:          "servicebridge-cache",
		QueueGroup:           "servicebridge",
		SubscribersCount:     2,
		AckWaitTimeout:       30 * time.Second,
		MaxDeliver:           5,
		MaxAckPending:        256,
		CloseTimeout:         10 * time.Second,
		MaxReconnects:        -1,
		ReconnectWait:        2 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
	}
}

// NewSubscriberConfig overlays the application NATS settings on the defaults.
func NewSubscriberConfig(cfg *config.NATSConfig) (SubscriberConfig, error) {
	out := DefaultSubscriberConfig()
	if cfg == nil {
		return out, fmt.Errorf("%w: nats config is required", ErrInvalidConfig)
	}
	if cfg.URL != "" {
		out.URL = cfg.URL
	}
	if cfg.Subject != "" {
		out.Subject = cfg.Subject
	}
	out.StreamName = cfg.Stream
	if cfg.DurableName != "" {
		out.DurableName = cfg.DurableName
	}
	if cfg.QueueGroup != "" {
		out.QueueGroup = cfg.QueueGroup
	}
	if cfg.AckWaitTimeout > 0 {
		out.AckWaitTimeout = cfg.AckWaitTimeout
	}
	if cfg.MaxDeliver > 0 {
		out.MaxDeliver = cfg.MaxDeliver
	}
	return out, out.Validate()
}

// Validate rejects settings the subscriber cannot start with.
func (c *SubscriberConfig) Validate() error {
	switch {
	case c.URL == "":
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	case c.Subject == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidConfig)
	case c.DurableName == "":
		return fmt.Errorf("%w: durable name is required", ErrInvalidConfig)
	case c.SubscribersCount < 1:
		return fmt.Errorf("%w: subscribers count must be at least 1", ErrInvalidConfig)
	case c.MaxDeliver < 1:
		return fmt.Errorf("%w: max deliver must be at least 1", ErrInvalidConfig)
	case c.AckWaitTimeout <= 0:
		return fmt.Errorf("%w: ack wait timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
