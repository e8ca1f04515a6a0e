// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef-test")

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, "legitexchange.test", 30*24*time.Hour)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that issued claims survive verification for every role.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	for _, role := range sec.Roles() {
		t.Run(string(role), func(t *testing.T) {
			token, issued, err := service.IssueToken(sec.Subject{
				ID:    "user-" + string(role),
				Name:  "Jane",
				Email: "jane@example.com",
				Role:  role,
			})
			require.NoError(t, err)
			require.NotNil(t, issued)

			claims, err := service.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, "user-"+string(role), claims.UserID)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, "jane@example.com", claims.Email)
			assert.False(t, claims.IssuedAtTime().IsZero())
		})
	}
}

/*
TestTokenService_TamperedByte checks that changing any single character fails closed.
*/
func TestTokenService_TamperedByte(t *testing.T) {
	service := newTokenService(t)
	token, _, err := service.IssueToken(sec.Subject{ID: "user-1", Role: sec.RoleBuyer})
	require.NoError(t, err)

	for index := range token {
		replacement := byte('A')
		if token[index] == 'A' {
			replacement = 'B'
		}
		tampered := token[:index] + string(replacement) + token[index+1:]

		claims, err := service.VerifyToken(tampered)
		assert.Error(t, err, "byte %d", index)
		assert.Nil(t, claims, "byte %d", index)
	}
}

/*
TestTokenService_Rejects covers the fail-closed branches of VerifyToken.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t)
	other, err := sec.NewTokenService([]byte("another-secret-another-secret-0000"), "legitexchange.test", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.IssueToken(sec.Subject{ID: "user-1", Role: sec.RoleAdmin})
	require.NoError(t, err)

	past := time.Now().Add(-31 * 24 * time.Hour)
	expired, _, err := service.WithClock(func() time.Time { return past }).IssueToken(sec.Subject{ID: "user-1", Role: sec.RoleAdmin})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": "user-1", "sub": "user-1", "rol": "ADMIN", "iss": "legitexchange.test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "user-1", "sub": "user-1", "rol": "SUPERUSER", "iss": "legitexchange.test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong_secret", foreign},
		{"expired", expired},
		{"alg_none", unsigned},
		{"unknown_role", unknownRole},
		{"truncated", foreign[:len(foreign)-4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.VerifyToken(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sec.ErrInvalidToken))
			assert.Nil(t, claims)
		})
	}
}

/*
TestNewTokenService_RejectsWeakSecret verifies that signing can never be silently weakened.
*/
func TestNewTokenService_RejectsWeakSecret(t *testing.T) {
	_, err := sec.NewTokenService([]byte("short"), "legitexchange.test", time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService([]byte(strings.Repeat("x", 32)), "legitexchange.test", 0)
	assert.Error(t, err)
}

/*
TestIssueToken_RejectsInvalidSubject ensures unknown roles are never signed.
*/
func TestIssueToken_RejectsInvalidSubject(t *testing.T) {
	service := newTokenService(t)

	_, _, err := service.IssueToken(sec.Subject{ID: "user-1", Role: "root"})
	assert.Error(t, err)

	_, _, err = service.IssueToken(sec.Subject{Role: sec.RoleBuyer})
	assert.Error(t, err)
}
