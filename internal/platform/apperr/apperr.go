// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for LegitExchange.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Authentication and authorization failures have dedicated codes.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Authentication Codes

// Machine-readable codes for the authentication and authorization taxonomy.
const (
	CodeMissingCredentials      = "MISSING_CREDENTIALS"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeDuplicateIdentity       = "DUPLICATE_IDENTITY"
	CodeInvalidRole             = "INVALID_ROLE"
	CodeIncompleteLawyerProfile = "INCOMPLETE_LAWYER_PROFILE"
	CodeInvalidOrExpiredSession = "INVALID_OR_EXPIRED_SESSION"
	CodeInsufficientRole        = "INSUFFICIENT_ROLE"
	CodeTooManyAttempts         = "TOO_MANY_ATTEMPTS"
	CodeInternal                = "INTERNAL_ERROR"
	CodeNotFound                = "NOT_FOUND"
)

// AppError is the canonical error type for the LegitExchange API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// RetryAfter is the number of seconds sent in the Retry-After header for 429 responses.
	RetryAfter int `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Identity") // Returns "Identity not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfterSeconds,
	}
}

// # Authentication Taxonomy

// MissingCredentials creates a 400 [AppError] when email or password is absent.
func MissingCredentials() *AppError {
	return &AppError{
		Code:       CodeMissingCredentials,
		Message:    "Email and password are required",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidCredentials creates a 401 [AppError].
//
// The message is identical for unknown emails and wrong passwords.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// DuplicateIdentity creates a 409 [AppError] for an already registered email.
func DuplicateIdentity() *AppError {
	return &AppError{
		Code:       CodeDuplicateIdentity,
		Message:    "User already exists",
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidRole creates a 400 [AppError] for a role outside the fixed set.
func InvalidRole() *AppError {
	return &AppError{
		Code:       CodeInvalidRole,
		Message:    "Invalid user role",
		HTTPStatus: http.StatusBadRequest,
	}
}

// IncompleteLawyerProfile creates a 400 [AppError] for lawyer registrations
// missing a bar number or specialization.
func IncompleteLawyerProfile() *AppError {
	return &AppError{
		Code:       CodeIncompleteLawyerProfile,
		Message:    "Bar number and at least one specialization are required for lawyers",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidOrExpiredSession creates a 401 [AppError].
func InvalidOrExpiredSession() *AppError {
	return &AppError{
		Code:       CodeInvalidOrExpiredSession,
		Message:    "Authentication required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InsufficientRole creates a 403 [AppError].
func InsufficientRole() *AppError {
	return &AppError{
		Code:       CodeInsufficientRole,
		Message:    "You don't have permission to access this resource",
		HTTPStatus: http.StatusForbidden,
	}
}

// TooManyAttempts creates a 429 [AppError] for throttled sign-in attempts.
func TooManyAttempts(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeTooManyAttempts,
		Message:    "Too many sign-in attempts. Try again later.",
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfterSeconds,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// HasCode reports whether err's chain contains an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
