// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

func claimsFor(role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "user-" + string(role), Role: role}
}

var publicPaths = []string{
	"/",
	"/auth/signin",
	"/auth/register",
	"/auth/error",
	"/unauthorized",
	"/properties",
	"/properties/42",
	"/api/auth/signin",
	"/api/auth/session",
}

var protectedPaths = []string{
	"/dashboard",
	"/help",
	"/lawyers",
	"/admin",
	"/admin/settings",
	"/lawyer/cases",
	"/properties/new",
	"/api/properties",
}

/*
TestDecide_PublicPathsAllowAnonymous covers every public prefix for a visitor.
*/
func TestDecide_PublicPathsAllowAnonymous(t *testing.T) {
	policy := access.DefaultPolicy()

	for _, path := range publicPaths {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, access.Allow, policy.Decide(path, nil).Outcome)
		})
	}
}

/*
TestDecide_AnonymousRedirectsWithCallback verifies the callback is the requested path.
*/
func TestDecide_AnonymousRedirectsWithCallback(t *testing.T) {
	policy := access.DefaultPolicy()

	for _, path := range protectedPaths {
		t.Run(path, func(t *testing.T) {
			decision := policy.Decide(path, nil)

			assert.Equal(t, access.RedirectToSignIn, decision.Outcome)
			assert.Equal(t, "/auth/signin", decision.Target)
			assert.Equal(t, path, decision.CallbackURL)
		})
	}
}

func TestDecide_DashboardLocation(t *testing.T) {
	decision := access.DefaultPolicy().Decide("/dashboard", nil)

	location, err := url.Parse(decision.Location())
	require.NoError(t, err)
	assert.Equal(t, "/auth/signin", location.Path)
	assert.Equal(t, "/dashboard", location.Query().Get("callbackUrl"))
}

/*
TestDecide_RoleRestrictions checks every role against every restricted prefix.
*/
func TestDecide_RoleRestrictions(t *testing.T) {
	policy := access.DefaultPolicy()

	tests := []struct {
		path    string
		allowed []sec.UserRole
	}{
		{"/admin/settings", []sec.UserRole{sec.RoleAdmin}},
		{"/admin", []sec.UserRole{sec.RoleAdmin}},
		{"/lawyer", []sec.UserRole{sec.RoleLawyer}},
		{"/lawyer/cases/7", []sec.UserRole{sec.RoleLawyer}},
		{"/properties/new", []sec.UserRole{sec.RoleSeller, sec.RoleAdmin}},
		{"/dashboard", sec.Roles()},
		{"/lawyers", sec.Roles()},
	}

	for _, tt := range tests {
		for _, role := range sec.Roles() {
			t.Run(tt.path+"/"+role.String(), func(t *testing.T) {
				decision := policy.Decide(tt.path, claimsFor(role))

				if role.In(tt.allowed...) {
					assert.Equal(t, access.Allow, decision.Outcome)
					return
				}
				assert.Equal(t, access.RedirectToUnauthorized, decision.Outcome)
				assert.Equal(t, "/unauthorized", decision.Location())
			})
		}
	}
}

func TestDecide_BuyerOnAdminSettings(t *testing.T) {
	decision := access.DefaultPolicy().Decide("/admin/settings", claimsFor(sec.RoleBuyer))

	assert.Equal(t, access.RedirectToUnauthorized, decision.Outcome)
	assert.False(t, decision.Allowed())
}

/*
TestDecide_AuthenticatedAwayFromAuthPages verifies signed-in users leave sign-in and register.
*/
func TestDecide_AuthenticatedAwayFromAuthPages(t *testing.T) {
	policy := access.DefaultPolicy()

	for _, path := range []string{"/auth/signin", "/auth/register", "/auth/signin/verify"} {
		for _, role := range sec.Roles() {
			decision := policy.Decide(path, claimsFor(role))
			assert.Equal(t, access.RedirectAuthenticatedAway, decision.Outcome, path)
			assert.Equal(t, "/dashboard", decision.Location(), path)
		}
	}

	// The error page stays reachable for signed-in users
	assert.Equal(t, access.Allow, policy.Decide("/auth/error", claimsFor(sec.RoleAdmin)).Outcome)
}

/*
TestDecide_FailsClosed covers unknown roles and unclassifiable paths.
*/
func TestDecide_FailsClosed(t *testing.T) {
	policy := access.DefaultPolicy()

	// Unknown role values count as no session
	forged := &sec.AuthClaims{UserID: "x", Role: "SUPERUSER"}
	assert.Equal(t, access.RedirectToSignIn, policy.Decide("/admin", forged).Outcome)
	assert.Equal(t, access.RedirectToSignIn, policy.Decide("/dashboard", &sec.AuthClaims{Role: "admin"}).Outcome)

	// Paths that cannot be normalized never resolve to Allow
	for _, path := range []string{"", "admin", "/admin\\x", "/dash\x00board"} {
		assert.Equal(t, access.RedirectToSignIn, policy.Decide(path, nil).Outcome, path)
		assert.Equal(t, access.RedirectToUnauthorized, policy.Decide(path, claimsFor(sec.RoleAdmin)).Outcome, path)
	}
}

/*
TestDecide_DotSegments verifies that cleaning happens before classification.
*/
func TestDecide_DotSegments(t *testing.T) {
	policy := access.DefaultPolicy()

	tests := []struct {
		path     string
		outcome  access.Outcome
		callback string
	}{
		{"/properties/../admin", access.RedirectToSignIn, "/admin"},
		{"/properties/./new", access.RedirectToSignIn, "/properties/new"},
		{"//admin", access.RedirectToSignIn, "/admin"},
		{"/admin/../properties", access.Allow, ""},
	}

	for _, tt := range tests {
		decision := policy.Decide(tt.path, nil)
		assert.Equal(t, tt.outcome, decision.Outcome, tt.path)
		assert.Equal(t, tt.callback, decision.CallbackURL, tt.path)
	}
}

func TestDecide_Idempotent(t *testing.T) {
	policy := access.DefaultPolicy()
	paths := append(append([]string{}, publicPaths...), protectedPaths...)

	for _, path := range paths {
		for _, claims := range []*sec.AuthClaims{nil, claimsFor(sec.RoleBuyer), claimsFor(sec.RoleAdmin)} {
			assert.Equal(t, policy.Decide(path, claims), policy.Decide(path, claims))
		}
	}
}

/*
TestNewRouteTable_Validation rejects tables that could classify ambiguously.
*/
func TestNewRouteTable_Validation(t *testing.T) {
	tests := []struct {
		name  string
		route access.Route
	}{
		{"relative", access.Route{Prefix: "admin"}},
		{"trailing_slash", access.Route{Prefix: "/admin/"}},
		{"no_roles", access.Route{Prefix: "/admin", Access: access.AccessRestricted}},
		{"unknown_role", access.Route{Prefix: "/admin", Access: access.AccessRestricted, Roles: []sec.UserRole{"root"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := access.NewRouteTable(tt.route)
			assert.Error(t, err)
		})
	}

	_, err := access.NewRouteTable(access.Route{Prefix: "/a"}, access.Route{Prefix: "/a"})
	assert.Error(t, err)
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	table, err := access.NewRouteTable(access.DefaultRoutes()...)
	require.NoError(t, err)

	route, cleaned, err := table.Classify("/properties/new/")
	require.NoError(t, err)
	assert.Equal(t, "/properties/new", route.Prefix)
	assert.Equal(t, "/properties/new", cleaned)

	route, _, err = table.Classify("/properties/newest")
	require.NoError(t, err)
	assert.Equal(t, "/properties", route.Prefix)

	route, _, err = table.Classify("/settings")
	require.NoError(t, err)
	assert.Equal(t, access.AccessAuthenticated, route.Access)

	_, _, err = table.Classify("settings")
	assert.ErrorIs(t, err, access.ErrUnclassifiable)
}
