// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package authz authorizes marketplace roles with Casbin.

The model and policy are embedded (model.conf, policy.csv). Policies grant a
role read access to path patterns matched with keyMatch2:

	customer      /api/v1/customers/*, /api/v1/services/:id/similar
	professional  /api/v1/professionals/*, /api/v1/services/:id/pricing-suggestion
	admin         /api/v1/analytics/* plus everything above

Path policies answer "may this role call this endpoint". Ownership is a
separate check: RequireOwnProfile rejects a customer or professional whose
token names a different profile id than the one in the URL.

Both middlewares expect internal/auth to have stored a logging.Subject in the
request context and are only mounted when security.auth_mode is "jwt".
*/
package authz
