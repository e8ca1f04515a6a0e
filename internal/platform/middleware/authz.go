// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	"github.com/taibuivan/legitexchange/internal/platform/respond"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// SessionTokens is the part of the token service the gate needs.
//
// Defining it here decouples the middleware from [sec.TokenService], allowing
// fakes to be injected during unit testing.
type SessionTokens interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
	IssueToken(subject sec.Subject) (string, *sec.AuthClaims, error)
}

// GateOptions tunes the request gate.
type GateOptions struct {
	// UpdateAge is how old a cookie token may get before it is re-issued.
	// Zero disables rolling re-issue.
	UpdateAge time.Duration

	// SecureCookie sets the Secure flag on cookies written by the gate.
	SecureCookie bool

	// Now overrides the clock. Defaults to [time.Now].
	Now func() time.Time
}

// exemptPrefixes bypass the gate entirely. They serve assets and probes, not pages.
var exemptPrefixes = []string{"/static/", "/assets/"}

var exemptPaths = map[string]struct{}{
	"/favicon.ico": {},
	"/robots.txt":  {},
	"/health":      {},
	"/ready":       {},
}

var exemptExtensions = map[string]struct{}{
	".svg": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {},
}

// IsExemptPath reports whether the gate skips the path.
func IsExemptPath(requestPath string) bool {
	if _, ok := exemptPaths[requestPath]; ok {
		return true
	}
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(requestPath, prefix) && !strings.Contains(requestPath, "..") {
			return true
		}
	}

	// Top-level images only. Nested paths stay under their route's policy.
	_, ok := exemptExtensions[strings.ToLower(path.Ext(requestPath))]
	return ok && path.Dir(requestPath) == "/" && !strings.Contains(requestPath, "..")
}

/*
RequestGate applies the access policy to every request before any handler runs.

Flow:
 1. Exempt asset and probe paths pass straight through.
 2. The token is read from the session cookie or a Bearer header.
 3. A token that fails verification is treated exactly like no token, and a
    bad cookie is cleared.
 4. The policy decides. Pages get a 307 redirect, API paths get a JSON 401/403.
 5. Allowed requests carry the claims in their context. A cookie token older
    than UpdateAge is re-issued on the way through.
*/
func RequestGate(policy *access.Policy, tokens SessionTokens, options GateOptions) func(http.Handler) http.Handler {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestPath := request.URL.Path

			// 1. Exemptions
			if IsExemptPath(requestPath) {
				next.ServeHTTP(writer, request)
				return
			}

			logger := ctxutil.GetLogger(request.Context())

			// 2. Token extraction and verification
			var claims *sec.AuthClaims
			token, source := sec.TokenFromRequest(request)
			if source != sec.TokenAbsent {
				verified, err := tokens.VerifyToken(token)
				if err != nil {
					logger.DebugContext(request.Context(), "session_token_rejected", slog.String("reason", err.Error()))
					if source == sec.TokenFromCookie {
						http.SetCookie(writer, sec.ExpiredSessionCookie(options.SecureCookie))
					}
				} else {
					claims = verified
				}
			}

			// 3. Policy decision
			decision := policy.Decide(requestPath, claims)
			if !decision.Allowed() {
				logger.DebugContext(request.Context(), "gate_redirect",
					slog.String("outcome", decision.Outcome.String()),
					slog.String("location", decision.Location()),
				)
				deny(writer, request, decision)
				return
			}

			// 4. Rolling re-issue
			if claims != nil && source == sec.TokenFromCookie && options.UpdateAge > 0 &&
				now().Sub(claims.IssuedAtTime()) >= options.UpdateAge {
				claims = reissue(writer, request, tokens, claims, options.SecureCookie)
			}

			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// deny translates a non-allow decision into a response.
func deny(writer http.ResponseWriter, request *http.Request, decision access.Decision) {
	if strings.HasPrefix(request.URL.Path, constants.PathAPIPrefix) {
		switch decision.Outcome {
		case access.RedirectToSignIn:
			respond.Error(writer, request, apperr.InvalidOrExpiredSession())
			return
		case access.RedirectToUnauthorized:
			respond.Error(writer, request, apperr.InsufficientRole())
			return
		}
	}
	respond.Redirect(writer, request, decision.Location())
}

// reissue refreshes the cookie from the claims snapshot. On failure the
// original claims stay valid until they expire.
func reissue(writer http.ResponseWriter, request *http.Request, tokens SessionTokens, claims *sec.AuthClaims, secure bool) *sec.AuthClaims {
	token, fresh, err := tokens.IssueToken(sec.Subject{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_reissue_failed", slog.String("error", err.Error()))
		return claims
	}

	http.SetCookie(writer, sec.SessionCookie(token, fresh.ExpiresAtTime(), secure))
	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "session_reissued", slog.String("user_id", fresh.UserID))
	return fresh
}
