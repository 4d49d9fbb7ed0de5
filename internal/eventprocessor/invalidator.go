// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

const handlerName = "cache-invalidation"

// Invalidator consumes marketplace events and evicts stale cached responses.
// It satisfies the supervisor's EventConsumer lifecycle.
type Invalidator struct {
	cfg     SubscriberConfig
	evictor *CacheEvictor
	logger  watermill.LoggerAdapter
	events  *logging.EventLogger

	mu         sync.Mutex
	router     *message.Router
	subscriber message.Subscriber
	done       chan struct{}
}

// NewInvalidator validates cfg and prepares an Invalidator. No connection is
// made until Start.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewInvalidator(cfg *config.NATSConfig, store cache.Store, logger zerolog.Logger) (*Invalidator, error) {
	subCfg, err := NewSubscriberConfig(cfg)
	if err != nil {
		return nil, err
	}
	events := logging.NewEventLoggerWithLogger(logger)
	evictor, err := NewCacheEvictor(store, events)
	if err != nil {
		return nil, err
	}
	return &Invalidator{
		cfg:     subCfg,
		evictor: evictor,
		logger:  NewWatermillLogger(logger.With().Str("component", "watermill").Logger()),
		events:  events,
	}, nil
}

// Start connects to NATS and runs the router in the background. It returns
// once the router is running or failed to start.
func (i *Invalidator) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.router != nil {
		return errors.New("invalidator already started")
	}

	sub, err := NewSubscriber(&i.cfg, i.logger)
	if err != nil {
		return err
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: i.cfg.CloseTimeout}, i.logger)
	if err != nil {
		_ = sub.Close()
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      i.cfg.RetryMaxRetries,
			InitialInterval: i.cfg.RetryInitialInterval,
			MaxInterval:     i.cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          i.logger,
		}.Middleware,
	)
	router.AddConsumerHandler(handlerName, i.cfg.Subject, sub, i.handle)

	runErr := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := router.Run(ctx); err != nil {
			runErr <- err
		}
	}()

	select {
	case <-router.Running():
	case err := <-runErr:
		_ = sub.Close()
		return fmt.Errorf("run watermill router: %w", err)
	case <-ctx.Done():
		_ = router.Close()
		_ = sub.Close()
		return ctx.Err()
	}

	i.router = router
	i.subscriber = sub
	i.done = done
	i.events.LogSubscriptionStarted(i.cfg.Subject, i.cfg.QueueGroup)
	return nil
}

// handle acks malformed payloads and returns eviction errors so the Retry
// middleware and, after that, JetStream redelivery can try again.
func (i *Invalidator) handle(msg *message.Message) error {
	start := time.Now()
	metrics.RecordNATSConsume()

	ctx := logging.ContextWithCorrelationID(msg.Context(), msg.UUID)
	if _, err := i.evictor.HandlePayload(ctx, msg.Payload); err != nil {
		if errors.Is(err, ErrMalformedEvent) {
			i.logger.Error("Dropping malformed marketplace event", err, watermill.LogFields{
				"message_uuid": msg.UUID,
			})
			return nil
		}
		return err
	}

	metrics.RecordNATSProcessed(time.Since(start))
	return nil
}

// Shutdown stops the router, waiting for in-flight messages up to the
// router close timeout or ctx, whichever ends first.
func (i *Invalidator) Shutdown(ctx context.Context) error {
	i.mu.Lock()
	router, sub, done := i.router, i.subscriber, i.done
	i.router, i.subscriber, i.done = nil, nil, nil
	i.mu.Unlock()

	if router == nil {
		return nil
	}

	var errs []error
	if err := router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close router: %w", err))
	}
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}
	if err := sub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}
	i.events.LogSubscriptionStopped(i.cfg.Subject)
	return errors.Join(errs...)
}
