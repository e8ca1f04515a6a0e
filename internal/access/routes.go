// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides who may see which page.

It owns three pieces that must always agree with each other:

  - Route Table: a static classification of path prefixes.
  - Policy: a pure function from (path, session claims) to a [Decision].
  - Guard: the view-layer state machine that mirrors the policy while the
    client session is still resolving.

Nothing here performs I/O. The request gate in the middleware package and the
page handlers in the web package are the only callers.
*/
package access

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// # Classification

// Access describes who may reach a route.
type Access int

const (
	// AccessAuthenticated admits any identity holding a valid session.
	AccessAuthenticated Access = iota

	// AccessPublic admits everyone, signed in or not.
	AccessPublic

	// AccessRestricted admits only the roles listed on the route.
	AccessRestricted
)

// String implements [fmt.Stringer].
func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessRestricted:
		return "restricted"
	default:
		return "authenticated"
	}
}

// Route classifies every path under Prefix.
type Route struct {
	Prefix string
	Access Access

	// Roles qualifying for an [AccessRestricted] route.
	Roles []sec.UserRole

	// AuthEntry marks the sign-in and registration pages, which signed-in
	// users are sent away from.
	AuthEntry bool
}

// Matches reports whether the cleaned path falls under the route.
//
// The root prefix only matches itself. Every other prefix matches on a path
// segment boundary, so "/lawyer" covers "/lawyer/cases" but not "/lawyers".
func (r Route) Matches(cleanPath string) bool {
	if r.Prefix == constants.PathHome {
		return cleanPath == constants.PathHome
	}
	return cleanPath == r.Prefix || strings.HasPrefix(cleanPath, r.Prefix+"/")
}

// Admits reports whether the role satisfies the route.
func (r Route) Admits(role sec.UserRole) bool {
	switch r.Access {
	case AccessPublic:
		return true
	case AccessRestricted:
		return role.In(r.Roles...)
	default:
		return role.Valid()
	}
}

// fallbackRoute is applied to every path no prefix claims.
var fallbackRoute = Route{Prefix: "", Access: AccessAuthenticated}

// DefaultRoutes returns the marketplace route table.
func DefaultRoutes() []Route {
	return []Route{
		{Prefix: constants.PathHome, Access: AccessPublic},
		{Prefix: constants.PathSignIn, Access: AccessPublic, AuthEntry: true},
		{Prefix: constants.PathRegister, Access: AccessPublic, AuthEntry: true},
		{Prefix: constants.PathAuthError, Access: AccessPublic},
		{Prefix: constants.PathUnauthorized, Access: AccessPublic},
		{Prefix: "/properties", Access: AccessPublic},
		{Prefix: "/properties/new", Access: AccessRestricted, Roles: []sec.UserRole{sec.RoleSeller, sec.RoleAdmin}},
		{Prefix: "/api/auth", Access: AccessPublic},
		{Prefix: "/admin", Access: AccessRestricted, Roles: []sec.UserRole{sec.RoleAdmin}},
		{Prefix: "/lawyer", Access: AccessRestricted, Roles: []sec.UserRole{sec.RoleLawyer}},
	}
}

// # Route Table

// RouteTable is an immutable, longest-prefix-first set of routes.
type RouteTable struct {
	routes []Route
}

// NewRouteTable validates the routes and orders them most specific first.
func NewRouteTable(routes ...Route) (*RouteTable, error) {
	seen := make(map[string]struct{}, len(routes))
	ordered := make([]Route, 0, len(routes))

	for _, route := range routes {
		if !strings.HasPrefix(route.Prefix, "/") || path.Clean(route.Prefix) != route.Prefix {
			return nil, fmt.Errorf("access: route prefix %q must be a clean absolute path", route.Prefix)
		}
		if _, dup := seen[route.Prefix]; dup {
			return nil, fmt.Errorf("access: duplicate route prefix %q", route.Prefix)
		}
		seen[route.Prefix] = struct{}{}

		if route.Access == AccessRestricted {
			if len(route.Roles) == 0 {
				return nil, fmt.Errorf("access: restricted route %q lists no roles", route.Prefix)
			}
			for _, role := range route.Roles {
				if !role.Valid() {
					return nil, fmt.Errorf("access: route %q lists unknown role %q", route.Prefix, role)
				}
			}
		}

		// Copy the role slice so later mutation by the caller cannot widen access.
		route.Roles = append([]sec.UserRole(nil), route.Roles...)
		ordered = append(ordered, route)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Prefix) > len(ordered[j].Prefix)
	})

	return &RouteTable{routes: ordered}, nil
}

// ErrUnclassifiable is returned for paths that cannot be normalized.
var ErrUnclassifiable = errors.New("access: path cannot be classified")

// Classify returns the single route governing rawPath.
//
// Paths are cleaned first so dot segments cannot step around a prefix.
func (t *RouteTable) Classify(rawPath string) (Route, string, error) {
	cleanPath, err := CleanPath(rawPath)
	if err != nil {
		return Route{}, "", err
	}

	for _, route := range t.routes {
		if route.Matches(cleanPath) {
			return route, cleanPath, nil
		}
	}

	return fallbackRoute, cleanPath, nil
}

// Routes returns a copy of the table in match order.
func (t *RouteTable) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// CleanPath normalizes a request path for classification.
func CleanPath(rawPath string) (string, error) {
	if !strings.HasPrefix(rawPath, "/") || strings.ContainsAny(rawPath, "\x00\\") {
		return "", ErrUnclassifiable
	}
	return path.Clean(rawPath), nil
}
