// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/legitexchange/internal/platform/constants"
)

// TokenSource tells where a session token was found.
type TokenSource int

const (
	TokenAbsent TokenSource = iota
	TokenFromCookie
	TokenFromBearer
)

// TokenFromRequest reads the session token from the session cookie, falling
// back to an "Authorization: Bearer" header for non-browser clients.
func TokenFromRequest(request *http.Request) (string, TokenSource) {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, TokenFromCookie
	}

	scheme, token, found := strings.Cut(request.Header.Get(constants.HeaderAuthorization), " ")
	if found && strings.EqualFold(scheme, "bearer") && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), TokenFromBearer
	}

	return "", TokenAbsent
}

// SessionCookie builds the cookie carrying a freshly issued token.
func SessionCookie(token string, expiresAt time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie builds a cookie that makes the browser drop the session.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
