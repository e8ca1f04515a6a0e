// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/legitexchange/internal/platform/database/schema"
	"github.com/taibuivan/legitexchange/internal/platform/dberr"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
	"github.com/taibuivan/legitexchange/pkg/uuid"
)

// # Identity Repository

// PostgresIdentityRepository implements [IdentityRepository] over users.identity.
type PostgresIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresIdentityRepository creates a new PostgreSQL implementation of the IdentityRepository.
func NewPostgresIdentityRepository(pool *pgxpool.Pool) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{pool: pool}
}

var identityColumns = fmt.Sprintf(`%s, %s, %s, %s, %s, %s, %s, COALESCE(%s, ''), %s, %s, %s`,
	schema.UserIdentity.ID, schema.UserIdentity.Name, schema.UserIdentity.Email, schema.UserIdentity.Password,
	schema.UserIdentity.Phone, schema.UserIdentity.Role, schema.UserIdentity.IsVerified, schema.UserIdentity.BarNumber,
	schema.UserIdentity.Specialization, schema.UserIdentity.CreatedAt, schema.UserIdentity.UpdatedAt,
)

/*
Create persists a new identity record.

Description: A unique violation on the email index surfaces as DUPLICATE_IDENTITY,
which closes the race between the service's duplicate check and the insert.
*/
func (repository *PostgresIdentityRepository) Create(context context.Context, identity *Identity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)`,
		schema.UserIdentity.Table,
		schema.UserIdentity.ID, schema.UserIdentity.Name, schema.UserIdentity.Email, schema.UserIdentity.Password,
		schema.UserIdentity.Phone, schema.UserIdentity.Role, schema.UserIdentity.IsVerified, schema.UserIdentity.BarNumber,
		schema.UserIdentity.Specialization, schema.UserIdentity.CreatedAt, schema.UserIdentity.UpdatedAt,
	)

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	specialization := identity.Specialization
	if specialization == nil {
		specialization = []string{}
	}

	_, err := repository.pool.Exec(context, query,
		identity.ID,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.Phone,
		string(identity.Role),
		identity.IsVerified,
		identity.BarNumber,
		specialization,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	return dberr.Wrap(err, "postgres_identity_repo_create_failed")
}

// FindByEmail retrieves an identity by its normalized email.
func (repository *PostgresIdentityRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, identityColumns, schema.UserIdentity.Table, schema.UserIdentity.Email)

	identity, err := scanIdentity(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_identity_repo_find_by_email_failed")
	}
	return identity, nil
}

// FindByID retrieves an identity by its primary key.
func (repository *PostgresIdentityRepository) FindByID(context context.Context, id string) (*Identity, error) {
	// A malformed id can never match and would otherwise fail the uuid cast.
	if !uuid.Valid(id) {
		return nil, dberr.ErrNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, identityColumns, schema.UserIdentity.Table, schema.UserIdentity.ID)

	identity, err := scanIdentity(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_identity_repo_find_by_id_failed")
	}
	return identity, nil
}

func scanIdentity(row pgx.Row) (*Identity, error) {
	identity := &Identity{}
	var role string

	err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Phone,
		&role,
		&identity.IsVerified,
		&identity.BarNumber,
		&identity.Specialization,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	identity.Role = sec.UserRole(role)
	return identity, nil
}
