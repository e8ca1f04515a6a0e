// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

func TestMemoryIdentityRepository(t *testing.T) {
	repository := NewMemoryIdentityRepository()
	ctx := context.Background()

	identity := &Identity{
		ID:             "id-1",
		Name:           "Lee Lawyer",
		Email:          "lee@example.com",
		Role:           sec.RoleLawyer,
		BarNumber:      "BAR-9",
		Specialization: []string{"Property"},
	}
	require.NoError(t, repository.Create(ctx, identity))
	assert.False(t, identity.CreatedAt.IsZero())

	byID, err := repository.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "lee@example.com", byID.Email)

	// Returned records are copies.
	byID.Specialization[0] = "Changed"
	byEmail, err := repository.FindByEmail(ctx, "lee@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"Property"}, byEmail.Specialization)

	err = repository.Create(ctx, &Identity{ID: "id-2", Email: "lee@example.com", Role: sec.RoleBuyer})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateIdentity))

	_, err = repository.FindByID(ctx, "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	_, err = repository.FindByEmail(ctx, "missing@example.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
