// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

// Package testinfra provides marketplace fixtures for tests.
//
// Builder assembles a catalog.Dataset with sensible defaults so tests only
// spell out the fields they assert on:
//
//	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
//	ds := testinfra.NewBuilder(now).
//	    Category(1, "Plumbing").
//	    Customer(10, nil).
//	    Professional(testinfra.Pro(20, 4.5, 1)).
//	    Service(30, 20, 1, "500").
//	    Book(10, 30, models.StatusCompleted)
//
//	reader := ds.Memory()
//
// Bookings default to being created one day before now and scheduled a week
// after it, with the service price as the estimated price.
package testinfra
