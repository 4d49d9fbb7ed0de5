// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package authz

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// ActionRead is the only action the read API performs.
const ActionRead = "read"

// Enforcer wraps the Casbin enforcer.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer creates an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	return newEnforcer(embeddedModel, embeddedPolicy)
}

func newEnforcer(modelText, policy string) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, policy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: enforcer}, nil
}

// loadPolicy parses policy CSV lines ("p, sub, obj, act" and "g, role, parent").
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for n, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var err error
		switch {
		case parts[0] == "p" && len(parts) == 4:
			_, err = enforcer.AddPolicy(parts[1], parts[2], parts[3])
		case parts[0] == "g" && len(parts) == 3:
			_, err = enforcer.AddGroupingPolicy(parts[1], parts[2])
		default:
			return fmt.Errorf("policy line %d: malformed rule %q", n+1, line)
		}
		if err != nil {
			return fmt.Errorf("policy line %d: %w", n+1, err)
		}
	}
	return nil
}

// Enforce checks if role can perform action on path.
func (e *Enforcer) Enforce(role, path, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(role, path, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// methodToAction maps an HTTP method to a policy action.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return strings.ToLower(method)
	}
}
