// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package models

import "github.com/goccy/go-json"

func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
