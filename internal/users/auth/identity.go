// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity and session layer of the marketplace.

It defines the Identity entity, the credential verifier, registration, and the
HTTP endpoints that issue and read stateless session tokens.

# Architecture

  - Service: Orchestrates business logic (Register, Verify, SignIn, Refresh).
  - Repository: [IdentityRepository] with in-memory and PostgreSQL implementations.
  - Throttle: [AttemptLimiter] with Redis and in-memory implementations.
  - Handler: Thin JSON/form transport over the service.
*/
package auth

import (
	"time"

	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// # Domain Entities

// Identity represents a registered account on the marketplace.
//
// The role is fixed at creation. Changing it is an administrative action
// outside this package, and only reaches a session once it is re-issued.
type Identity struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Phone        string       `json:"phone,omitempty"`
	Role         sec.UserRole `json:"role"`
	IsVerified   bool         `json:"is_verified"`

	// Lawyer profile. Empty for every other role.
	BarNumber      string   `json:"bar_number,omitempty"`
	Specialization []string `json:"specialization,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitized returns a copy without the password hash.
func (identity *Identity) Sanitized() *Identity {
	clone := *identity
	clone.PasswordHash = ""
	clone.Specialization = append([]string(nil), identity.Specialization...)
	return &clone
}

// Subject is the snapshot carried into a session token.
func (identity *Identity) Subject() sec.Subject {
	return sec.Subject{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	}
}

// SessionUser is the client-facing view of the session's identity.
type SessionUser struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     sec.UserRole `json:"role"`
	IsAdmin  bool         `json:"is_admin"`
	IsLawyer bool         `json:"is_lawyer"`
	IsSeller bool         `json:"is_seller"`
	IsBuyer  bool         `json:"is_buyer"`
}

// NewSessionUser projects session claims for the client.
func NewSessionUser(claims *sec.AuthClaims) *SessionUser {
	return &SessionUser{
		ID:       claims.UserID,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     claims.Role,
		IsAdmin:  claims.Role.IsAdmin(),
		IsLawyer: claims.Role.IsLawyer(),
		IsSeller: claims.Role.IsSeller(),
		IsBuyer:  claims.Role.IsBuyer(),
	}
}

// # Field Identifiers

// Field names for validation errors and form decoding.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldPhone          = "phone"
	FieldRole           = "role"
	FieldBarNumber      = "barNumber"
	FieldSpecialization = "specialization"
	FieldCallbackURL    = "callbackUrl"
)
