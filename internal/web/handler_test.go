// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
	"github.com/taibuivan/legitexchange/internal/web"
)

func newPages(t *testing.T) http.Handler {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	return web.NewHandler(renderer, access.DefaultPolicy()).Routes()
}

func get(handler http.Handler, target string, role sec.UserRole) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if role != "" {
		claims := &sec.AuthClaims{UserID: "user-1", Name: "Pat", Email: "pat@example.com", Role: role}
		request = request.WithContext(ctxutil.WithSession(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestPages_PublicRenderAnonymous(t *testing.T) {
	pages := newPages(t)

	for _, path := range []string{"/", "/properties", "/auth/signin", "/auth/register", "/auth/error", "/unauthorized"} {
		recorder := get(pages, path, "")
		require.Equal(t, http.StatusOK, recorder.Code, path)
		assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, recorder.Body.String(), `data-guard-public="true"`, path)
		assert.Contains(t, recorder.Body.String(), "/static/guard.js", path)
	}
}

func TestPages_ProtectedRedirectWithoutGate(t *testing.T) {
	pages := newPages(t)

	recorder := get(pages, "/dashboard", "")
	assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fdashboard", recorder.Header().Get("Location"))

	recorder = get(pages, "/admin", sec.RoleSeller)
	assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
	assert.Equal(t, "/unauthorized", recorder.Header().Get("Location"))

	recorder = get(pages, "/auth/signin", sec.RoleBuyer)
	assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
	assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))
}

func TestPages_DashboardRolePanel(t *testing.T) {
	pages := newPages(t)

	headings := map[sec.UserRole]string{
		sec.RoleAdmin:  "Admin Dashboard",
		sec.RoleLawyer: "Lawyer Dashboard",
		sec.RoleSeller: "Seller Dashboard",
		sec.RoleBuyer:  "Buyer Dashboard",
	}
	for role, heading := range headings {
		recorder := get(pages, "/dashboard", role)
		require.Equal(t, http.StatusOK, recorder.Code, role)
		body := recorder.Body.String()
		assert.Contains(t, body, heading)
		assert.Contains(t, body, `data-guard-public="false"`)
	}
}

func TestPages_RestrictedForAdmittedRoles(t *testing.T) {
	pages := newPages(t)

	assert.Equal(t, http.StatusOK, get(pages, "/admin", sec.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, get(pages, "/lawyer", sec.RoleLawyer).Code)
	assert.Equal(t, http.StatusOK, get(pages, "/properties/new", sec.RoleSeller).Code)
	assert.Equal(t, http.StatusOK, get(pages, "/properties/new", sec.RoleAdmin).Code)
	assert.Equal(t, http.StatusTemporaryRedirect, get(pages, "/properties/new", sec.RoleBuyer).Code)
}

func TestSignInPage_SanitizesCallback(t *testing.T) {
	pages := newPages(t)

	body := get(pages, "/auth/signin?callbackUrl=/lawyer&error=INVALID_CREDENTIALS", "").Body.String()
	assert.Contains(t, body, `name="callbackUrl" value="/lawyer"`)
	assert.Contains(t, body, "The email or password is incorrect.")

	body = get(pages, "/auth/signin?callbackUrl=https://evil.example/x", "").Body.String()
	assert.Contains(t, body, `name="callbackUrl" value="/dashboard"`)
	assert.NotContains(t, body, "evil.example")
}

func TestStaticGuardScript(t *testing.T) {
	pages := newPages(t)

	recorder := get(pages, "/static/guard.js", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "/api/auth/guard?path=")
}
