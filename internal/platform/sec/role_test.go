// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"ADMIN", true},
		{"LAWYER", true},
		{"SELLER", true},
		{"BUYER", true},
		{"admin", false},
		{"", false},
		{"MODERATOR", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			role, ok := sec.ParseRole(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.valid, role.Valid())
		})
	}
}

func TestUserRole_Flags(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsAdmin())
	assert.True(t, sec.RoleLawyer.IsLawyer())
	assert.True(t, sec.RoleSeller.IsSeller())
	assert.True(t, sec.RoleBuyer.IsBuyer())
	assert.False(t, sec.RoleBuyer.IsAdmin())
}

func TestUserRole_In(t *testing.T) {
	assert.True(t, sec.RoleSeller.In(sec.RoleSeller, sec.RoleAdmin))
	assert.False(t, sec.RoleBuyer.In(sec.RoleSeller, sec.RoleAdmin))
	assert.False(t, sec.UserRole("ghost").In(sec.UserRole("ghost")))
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse", sec.MinPasswordCost)
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
}
