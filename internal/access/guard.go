// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"

	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// # Session Resolution

// SessionStatus is the client-observed state of the session.
type SessionStatus int

const (
	StatusLoading SessionStatus = iota
	StatusAuthenticated
	StatusUnauthenticated
)

// String implements [fmt.Stringer].
func (s SessionStatus) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// SessionSnapshot is what the view layer knows about the session at one instant.
type SessionSnapshot struct {
	Status SessionStatus
	Claims *sec.AuthClaims
}

// Loading is the snapshot before the session has resolved.
func Loading() SessionSnapshot {
	return SessionSnapshot{Status: StatusLoading}
}

// Resolved builds a settled snapshot from optional claims.
func Resolved(claims *sec.AuthClaims) SessionSnapshot {
	if claims == nil || !claims.Role.Valid() {
		return SessionSnapshot{Status: StatusUnauthenticated}
	}
	return SessionSnapshot{Status: StatusAuthenticated, Claims: claims}
}

// SessionReader fetches the current session for the guard.
type SessionReader interface {
	ReadSession(context context.Context) (*sec.AuthClaims, error)
}

// # Views

// View is what the guarded page shows.
type View int

const (
	ViewSpinner View = iota
	ViewContent
	ViewRedirect
)

// String implements [fmt.Stringer].
func (v View) String() string {
	switch v {
	case ViewContent:
		return "content"
	case ViewRedirect:
		return "redirect"
	default:
		return "spinner"
	}
}

// MarshalText renders the view by name in JSON payloads.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// GuardResult is the outcome of one guard evaluation.
type GuardResult struct {
	View     View     `json:"view"`
	Status   string   `json:"status"`
	Outcome  string   `json:"outcome,omitempty"`
	Location string   `json:"location,omitempty"`
	decision Decision
}

// Decision returns the policy decision behind the result.
// It is meaningless while the view is [ViewSpinner].
func (r GuardResult) Decision() Decision {
	return r.decision
}

// # Guard

// Guard mirrors the [Policy] inside rendered pages.
//
// It never navigates while the session is loading, and once settled it reaches
// exactly the decision the request gate reaches for the same path and claims.
type Guard struct {
	policy *Policy
}

// NewGuard creates a guard backed by policy.
func NewGuard(policy *Policy) *Guard {
	return &Guard{policy: policy}
}

// Evaluate runs the state machine for one snapshot.
func (g *Guard) Evaluate(pagePath string, snapshot SessionSnapshot) GuardResult {
	if snapshot.Status == StatusLoading {
		return GuardResult{View: ViewSpinner, Status: snapshot.Status.String()}
	}

	// An authenticated snapshot without usable claims counts as signed out.
	var claims *sec.AuthClaims
	status := StatusUnauthenticated
	if snapshot.Status == StatusAuthenticated && snapshot.Claims != nil && snapshot.Claims.Role.Valid() {
		claims = snapshot.Claims
		status = StatusAuthenticated
	}

	decision := g.policy.Decide(pagePath, claims)
	result := GuardResult{
		Status:   status.String(),
		Outcome:  decision.Outcome.String(),
		decision: decision,
	}

	if decision.Allowed() {
		result.View = ViewContent
		return result
	}

	result.View = ViewRedirect
	result.Location = decision.Location()
	return result
}

// Resolve reads the session and evaluates it. A failed read counts as signed out.
func (g *Guard) Resolve(context context.Context, pagePath string, reader SessionReader) GuardResult {
	claims, err := reader.ReadSession(context)
	if err != nil {
		return g.Evaluate(pagePath, Resolved(nil))
	}
	return g.Evaluate(pagePath, Resolved(claims))
}
