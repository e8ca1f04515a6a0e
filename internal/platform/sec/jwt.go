// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the domain logic. The session strategy is stateless: every authorization
// decision is derived from the signed token alone, so nothing here touches a
// store.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum HS256 key size in bytes.
const MinSecretLength = 32

// ErrInvalidToken is returned by [TokenService.VerifyToken] for every
// rejected token. The underlying reason is wrapped for logging only.
var ErrInvalidToken = errors.New("sec: invalid or expired session token")

// AuthClaims represents the payload embedded inside a session token.
//
// The role is snapshotted at issuance. A server-side role change only takes
// effect once the token is re-issued.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token small.
	UserID string   `json:"uid"`
	Name   string   `json:"nam"`
	Email  string   `json:"eml"`
	Role   UserRole `json:"rol"`
}

// IssuedAtTime returns the issuance instant, or the zero time when absent.
func (claims *AuthClaims) IssuedAtTime() time.Time {
	if claims == nil || claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}

// ExpiresAtTime returns the expiry instant, or the zero time when absent.
func (claims *AuthClaims) ExpiresAtTime() time.Time {
	if claims == nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Subject is the identity snapshot carried into a token.
type Subject struct {
	ID    string
	Name  string
	Email string
	Role  UserRole
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret     []byte
	issuer     string
	timeToLive time.Duration
	now        func() time.Time
}

// NewTokenService creates a new TokenService.
//
// A short secret is rejected here as well as in configuration, so no code
// path can produce an unsigned or weakly signed token.
func NewTokenService(secret []byte, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("sec: session secret must be at least %d bytes", MinSecretLength)
	}
	if timeToLive <= 0 {
		return nil, errors.New("sec: session time-to-live must be positive")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{
		secret:     key,
		issuer:     issuer,
		timeToLive: timeToLive,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// IssueToken creates a signed session token for the subject.
func (service *TokenService) IssueToken(subject Subject) (string, *AuthClaims, error) {
	if subject.ID == "" {
		return "", nil, errors.New("sec: subject id is required")
	}
	if !subject.Role.Valid() {
		return "", nil, fmt.Errorf("sec: refusing to issue token for role %q", subject.Role)
	}

	currentTime := service.now()
	claims := &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			NotBefore: jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.timeToLive)),
		},
		UserID: subject.ID,
		Name:   subject.Name,
		Email:  subject.Email,
		Role:   subject.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, claims, nil
}

// VerifyToken checks the signature, issuer, expiry and role of a token.
//
// Any failure yields an error wrapping [ErrInvalidToken] and nil claims.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(service.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Unknown role values or a subject mismatch are treated as tampering.
	if !claims.Role.Valid() || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
