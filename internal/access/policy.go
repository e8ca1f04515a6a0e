// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"net/url"

	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// # Decisions

// Outcome is the kind of authorization decision.
type Outcome int

const (
	Allow Outcome = iota
	RedirectToSignIn
	RedirectToUnauthorized
	RedirectAuthenticatedAway
)

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToSignIn:
		return "redirect_to_signin"
	case RedirectToUnauthorized:
		return "redirect_to_unauthorized"
	case RedirectAuthenticatedAway:
		return "redirect_authenticated_away"
	default:
		return "unknown"
	}
}

// Decision is computed per request and never stored.
type Decision struct {
	Outcome Outcome

	// Target is the redirect path. Empty for [Allow].
	Target string

	// CallbackURL is set for [RedirectToSignIn] and is the path the user asked for.
	CallbackURL string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Location returns the redirect URL including the callback parameter.
func (d Decision) Location() string {
	if d.Outcome == Allow {
		return ""
	}
	if d.CallbackURL == "" {
		return d.Target
	}

	query := url.Values{}
	query.Set(constants.CallbackURLParam, d.CallbackURL)
	return d.Target + "?" + query.Encode()
}

// # Policy

// Policy maps a path and an optional session to a [Decision].
//
// A Policy is read-only after construction and safe for concurrent use.
type Policy struct {
	routes           *RouteTable
	signInPath       string
	landingPath      string
	unauthorizedPath string
}

// NewPolicy creates a Policy over the given route table.
func NewPolicy(routes *RouteTable) *Policy {
	return &Policy{
		routes:           routes,
		signInPath:       constants.PathSignIn,
		landingPath:      constants.PathDashboard,
		unauthorizedPath: constants.PathUnauthorized,
	}
}

// DefaultPolicy returns the policy over [DefaultRoutes].
func DefaultPolicy() *Policy {
	table, err := NewRouteTable(DefaultRoutes()...)
	if err != nil {
		panic(err)
	}
	return NewPolicy(table)
}

// Routes returns the underlying table.
func (p *Policy) Routes() *RouteTable {
	return p.routes
}

/*
Decide computes the authorization decision for a request.

Claims carrying an unknown role are treated exactly like a missing session.
A path that cannot be classified is denied.
*/
func (p *Policy) Decide(requestPath string, claims *sec.AuthClaims) Decision {
	authenticated := claims != nil && claims.Role.Valid()

	route, cleanPath, err := p.routes.Classify(requestPath)
	if err != nil {
		if authenticated {
			return Decision{Outcome: RedirectToUnauthorized, Target: p.unauthorizedPath}
		}
		return Decision{Outcome: RedirectToSignIn, Target: p.signInPath}
	}

	// 1. Anonymous visitors only reach public routes
	if !authenticated && route.Access != AccessPublic {
		return Decision{Outcome: RedirectToSignIn, Target: p.signInPath, CallbackURL: cleanPath}
	}

	// 2. Signed-in users have no business on sign-in or registration
	if authenticated && route.AuthEntry {
		return Decision{Outcome: RedirectAuthenticatedAway, Target: p.landingPath}
	}

	// 3. Public routes
	if route.Access == AccessPublic {
		return Decision{Outcome: Allow}
	}

	// 4. Role check
	if !route.Admits(claims.Role) {
		return Decision{Outcome: RedirectToUnauthorized, Target: p.unauthorizedPath}
	}

	return Decision{Outcome: Allow}
}
