// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package recommend ranks services, professionals and categories for the
marketplace.

# Service Recommendations

RecommendServices runs every registered Strategy in parallel. Each strategy
returns a ScoreMap of service id to a score in [0, 1], normalized by that
strategy alone. The engine merges them with fixed weights:

	collaborative  0.4
	content        0.3
	location       0.2
	popularity     0.1

then removes every service the customer has ever booked (any status), ranks
by merged score with ties broken by ascending service id, truncates to the
limit, and finally drops services that are no longer active or whose
professional is no longer active and verified. The ranked order survives
that last filter.

A strategy that fails is logged and contributes nothing. Two errors are not
absorbed: catalog.ErrIntegrity (corrupted marketplace data) and context
cancellation, both of which fail the request.

# Other Rankings

  - RecommendProfessionals: composite of rating, experience, review count,
    completion rate and proximity.
  - SimilarServices: same-category services scored by price closeness and
    owner rating.
  - RecommendCategories: categories co-booked by customers who share the
    customer's categories.
  - SuggestedCategories: categories offered by professionals who share at
    least one category with the given professional.
  - OptimalPricing: same-category market average adjusted for rating and
    experience. Returns ErrInsufficientData without comparables.

Strategy implementations live in the strategies subpackage so that this
package has no dependency on how individual signals are computed.
*/
package recommend
