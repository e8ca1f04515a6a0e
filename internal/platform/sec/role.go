// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole is the closed set of roles an identity can hold.
//
// Every component (token claims, route table, guard, registration) compares
// roles through this type. Raw strings are converted once with [ParseRole].
type UserRole string

const (
	// Platform administration, including lawyer approval
	RoleAdmin UserRole = "ADMIN"

	// Verified legal professional reviewing transactions
	RoleLawyer UserRole = "LAWYER"

	// Lists and manages properties
	RoleSeller UserRole = "SELLER"

	// Browses and saves properties
	RoleBuyer UserRole = "BUYER"
)

// Roles returns every valid role in a stable order.
func Roles() []UserRole {
	return []UserRole{RoleAdmin, RoleLawyer, RoleSeller, RoleBuyer}
}

// ParseRole converts a raw string into a [UserRole].
//
// The comparison is exact. Unknown values report false so callers fail closed.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(raw)
	return role, role.Valid()
}

// Valid reports whether r is a member of the closed role set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleLawyer, RoleSeller, RoleBuyer:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (r UserRole) String() string { return string(r) }

// # Role Flags

// IsAdmin reports whether the role is [RoleAdmin].
func (r UserRole) IsAdmin() bool { return r == RoleAdmin }

// IsLawyer reports whether the role is [RoleLawyer].
func (r UserRole) IsLawyer() bool { return r == RoleLawyer }

// IsSeller reports whether the role is [RoleSeller].
func (r UserRole) IsSeller() bool { return r == RoleSeller }

// IsBuyer reports whether the role is [RoleBuyer].
func (r UserRole) IsBuyer() bool { return r == RoleBuyer }

// In reports whether r is one of the given roles. An invalid role is never a member.
func (r UserRole) In(roles ...UserRole) bool {
	if !r.Valid() {
		return false
	}
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
