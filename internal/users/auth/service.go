// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
	"github.com/taibuivan/legitexchange/internal/platform/validate"
	"github.com/taibuivan/legitexchange/pkg/normalize"
	"github.com/taibuivan/legitexchange/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs session tokens for verified identities.
type TokenIssuer interface {
	IssueToken(subject sec.Subject) (string, *sec.AuthClaims, error)
}

// Service implements the credential verifier, registration and session issuance.
//
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	identities IdentityRepository
	tokens     TokenIssuer
	attempts   AttemptLimiter
	bcryptCost int
}

// NewService constructs a new [Service] with its dependencies.
//
// A nil limiter disables sign-in throttling.
func NewService(identities IdentityRepository, tokens TokenIssuer, attempts AttemptLimiter, bcryptCost int) *Service {
	return &Service{
		identities: identities,
		tokens:     tokens,
		attempts:   attempts,
		bcryptCost: bcryptCost,
	}
}

// SessionGrant is a freshly issued session.
type SessionGrant struct {
	Token    string
	Claims   *sec.AuthClaims
	Identity *Identity
}

// # Credential Verification

/*
Verify checks an email and password against the stored identity.

Description: The lookup uses the same normalization as registration. An
unknown email and a wrong password produce the same error, and the unknown
email path still spends one bcrypt comparison.

Returns:
  - *Identity: The identity without its password hash
  - err: MissingCredentials, InvalidCredentials or internal failures
*/
func (service *Service) Verify(context context.Context, email, password string) (*Identity, error) {
	normalizedEmail := normalize.Email(email)
	if normalizedEmail == "" || password == "" {
		return nil, apperr.MissingCredentials()
	}

	identity, err := service.identities.FindByEmail(context, normalizedEmail)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			sec.BurnPasswordCheck(password)
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, identity.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	return identity.Sanitized(), nil
}

// # Sign-in Flow

/*
SignIn verifies credentials under the attempt throttle and issues a session.

Returns:
  - *SessionGrant: Signed token, its claims and the identity
  - err: MissingCredentials, TooManyAttempts, InvalidCredentials or internal failures
*/
func (service *Service) SignIn(context context.Context, email, password string) (*SessionGrant, error) {
	logger := ctxutil.GetLogger(context)

	normalizedEmail := normalize.Email(email)
	if normalizedEmail == "" || password == "" {
		return nil, apperr.MissingCredentials()
	}

	// 1. Throttle check
	if service.attempts != nil {
		wait, err := service.attempts.Check(context, normalizedEmail)
		if err != nil {
			return nil, fmt.Errorf("auth_service_throttle_check_failed: %w", err)
		}
		if wait > 0 {
			logger.InfoContext(context, "signin_throttled", slog.String("email", normalizedEmail))
			return nil, apperr.TooManyAttempts(int(math.Ceil(wait.Seconds())))
		}
	}

	// 2. Credential verification
	identity, err := service.Verify(context, normalizedEmail, password)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeInvalidCredentials) {
			logger.InfoContext(context, "signin_failed", slog.String("email", normalizedEmail))
			service.recordFailure(context, normalizedEmail)
		}
		return nil, err
	}

	if service.attempts != nil {
		if err := service.attempts.Reset(context, normalizedEmail); err != nil {
			logger.WarnContext(context, "signin_throttle_reset_failed", slog.Any("error", err))
		}
	}

	// 3. Session issuance
	grant, err := service.issue(identity)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(context, "signin_succeeded",
		slog.String("user_id", identity.ID),
		slog.String("role", identity.Role.String()),
	)
	return grant, nil
}

// recordFailure counts a failed attempt. A throttle outage must not turn a
// wrong password into a 500.
func (service *Service) recordFailure(context context.Context, email string) {
	if service.attempts == nil {
		return
	}
	if err := service.attempts.RecordFailure(context, email); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "signin_throttle_record_failed", slog.Any("error", err))
	}
}

/*
Refresh re-reads the identity behind a session and issues a new token.

Description: This is the only way a server-side role change reaches an
existing session. A session whose identity no longer exists is rejected.
*/
func (service *Service) Refresh(context context.Context, claims *sec.AuthClaims) (*SessionGrant, error) {
	if claims == nil {
		return nil, apperr.InvalidOrExpiredSession()
	}

	identity, err := service.identities.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidOrExpiredSession()
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if identity.Role != claims.Role {
		ctxutil.GetLogger(context).InfoContext(context, "session_role_changed",
			slog.String("user_id", identity.ID),
			slog.String("from", claims.Role.String()),
			slog.String("to", identity.Role.String()),
		)
	}

	return service.issue(identity.Sanitized())
}

func (service *Service) issue(identity *Identity) (*SessionGrant, error) {
	token, claims, err := service.tokens.IssueToken(identity.Subject())
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}
	return &SessionGrant{Token: token, Claims: claims, Identity: identity}, nil
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new identity.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Role           string
	BarNumber      string
	Specialization []string
}

/*
Register validates, hashes, and persists a new identity.

Description: After field validation the checks run in a fixed order:
duplicate email, then role, then the lawyer profile. Lawyers start
unverified until an administrator approves them.

Returns:
  - *Identity: Created entity without its password hash
  - err: VALIDATION_ERROR, DuplicateIdentity, InvalidRole, IncompleteLawyerProfile or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Identity, error) {
	name := normalize.Name(input.Name)
	email := normalize.Email(input.Email)
	phone := strings.TrimSpace(input.Phone)

	// 1. Field shape
	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Email(FieldEmail, email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength, fmt.Sprintf("Maximum %d bytes", MaxPasswordLength)).
		Phone(FieldPhone, phone)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Duplicate email
	_, err := service.identities.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.DuplicateIdentity()
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	// 3. Role
	role, ok := sec.ParseRole(input.Role)
	if !ok {
		return nil, apperr.InvalidRole()
	}

	// 4. Lawyer profile
	identity := &Identity{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Role:       role,
		IsVerified: !role.IsLawyer(),
	}

	if role.IsLawyer() {
		identity.BarNumber = strings.TrimSpace(input.BarNumber)
		identity.Specialization = normalize.Specializations(input.Specialization)
		if identity.BarNumber == "" || len(identity.Specialization) == 0 {
			return nil, apperr.IncompleteLawyerProfile()
		}
	}

	// 5. Hash and persist
	hashedPassword, err := sec.HashPassword(input.Password, service.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}
	identity.PasswordHash = hashedPassword

	if err := service.identities.Create(context, identity); err != nil {
		if apperr.HasCode(err, apperr.CodeDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "identity_registered",
		slog.String("user_id", identity.ID),
		slog.String("role", role.String()),
		slog.Bool("pending_verification", !identity.IsVerified),
	)

	return identity.Sanitized(), nil
}

// # Development Seed

/*
SeedDemo creates the demo buyer account if it does not exist yet.
*/
func (service *Service) SeedDemo(context context.Context) error {
	_, err := service.identities.FindByEmail(context, DemoEmail)
	if err == nil {
		return nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_seed_lookup_failed: %w", err)
	}

	_, err = service.Register(context, RegisterInput{
		Name:     DemoName,
		Email:    DemoEmail,
		Password: DemoPassword,
		Role:     string(sec.RoleBuyer),
	})
	if err != nil && !apperr.HasCode(err, apperr.CodeDuplicateIdentity) {
		return fmt.Errorf("auth_service_seed_failed: %w", err)
	}
	return nil
}
