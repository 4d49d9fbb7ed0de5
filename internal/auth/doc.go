// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package auth verifies bearer tokens issued by the marketplace's identity
service.

Tokens are HS256-signed JWTs carrying the caller's marketplace role and the
profile id that role acts for:

	{
	  "role": "customer",
	  "profile_id": 42,
	  "iss": "servicebridge",
	  "exp": 1767225600
	}

The engine never issues tokens for end users. GenerateToken exists for
operators and tests.

# Modes

The middleware is a pass-through when security.auth_mode is "none". In "jwt"
mode a missing or invalid token is answered with 401 and logged through
logging.AccessLogger. A valid token stores a logging.Subject in the request
context, which internal/authz reads for role and ownership checks.

# Usage

	verifier, err := auth.NewVerifier(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(verifier, cfg.Security.AuthMode)
	r.Use(mw.Authenticate)
*/
package auth
