// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/servicebridge/internal/cache"
	"github.com/tomtom215/servicebridge/internal/config"
)

// Invalidator is a stub for builds without the nats tag.
type Invalidator struct{}

// NewInvalidator returns ErrNATSNotEnabled.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewInvalidator(_ *config.NATSConfig, _ cache.Store, _ zerolog.Logger) (*Invalidator, error) {
	return nil, ErrNATSNotEnabled
}

// Start returns ErrNATSNotEnabled.
func (i *Invalidator) Start(_ context.Context) error {
	return ErrNATSNotEnabled
}

// Shutdown is a no-op.
func (i *Invalidator) Shutdown(_ context.Context) error {
	return nil
}
