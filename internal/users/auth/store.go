// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Identity Data Access

// IdentityRepository defines the data access contract for identities.
//
// Implementations receive emails already normalized by the service and must
// return [dberr.ErrNotFound] (an apperr NOT_FOUND) for unknown records and
// [apperr.DuplicateIdentity] when the email is taken.
type IdentityRepository interface {

	/*
		FindByID returns the identity with the given ID.

		Returns:
		  - *Identity: Hydrated entity, including the password hash
		  - error: NOT_FOUND or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		FindByEmail returns the identity registered under the normalized email.

		Returns:
		  - *Identity: Hydrated entity, including the password hash
		  - error: NOT_FOUND or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		Create persists a brand-new identity.

		Returns:
		  - error: DUPLICATE_IDENTITY or persistence failures
	*/
	Create(context context.Context, identity *Identity) error
}

// # Sign-in Throttle

// AttemptLimiter counts failed sign-ins per key (the normalized email).
type AttemptLimiter interface {

	// Check returns how long the key must wait before another attempt.
	// Zero means the attempt may proceed.
	Check(context context.Context, key string) (time.Duration, error)

	// RecordFailure counts one failed attempt.
	RecordFailure(context context.Context, key string) error

	// Reset clears the key after a successful sign-in.
	Reset(context context.Context, key string) error
}
