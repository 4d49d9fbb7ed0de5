// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package eventprocessor evicts cached responses when marketplace events
// arrive on NATS JetStream.
//
// The marketplace application publishes booking and review events on subjects
// under "marketplace.>". Each event names the customer it concerns; the
// Invalidator drops every cached response in that customer's scope so the
// next recommendation request is computed against fresh data.
//
//	┌──────────────────┐    ┌────────────────┐    ┌──────────────────┐
//	│ Marketplace app  │───▶│ NATS JetStream │───▶│   Invalidator    │
//	│ bookings/reviews │    │  marketplace.> │    │ watermill Router │
//	└──────────────────┘    └────────────────┘    └────────┬─────────┘
//	                                                       │ DeletePrefix
//	                                                       ▼
//	                                              ┌──────────────────┐
//	                                              │  cache.Store     │
//	                                              │  customer:<id>/  │
//	                                              └──────────────────┘
//
// # Build Tags
//
// The NATS transport is compiled only with the nats build tag:
//
//	go build -tags nats ./cmd/server
//
// Without it NewInvalidator returns ErrNATSNotEnabled. Event parsing and the
// eviction handler are always built so they can be tested without a broker.
//
// # Delivery
//
// Messages are consumed through a durable JetStream consumer in a queue group,
// so replicas share the stream. Eviction is idempotent: a redelivered event
// removes nothing the second time. Payloads that cannot be parsed are acked
// and counted instead of being redelivered.
package eventprocessor
