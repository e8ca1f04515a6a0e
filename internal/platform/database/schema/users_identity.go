// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns queried by the PostgreSQL stores.
package schema

// UserIdentityTable represents the 'users.identity' table
type UserIdentityTable struct {
	Table          string
	ID             string
	Name           string
	Email          string
	Password       string
	Phone          string
	Role           string
	IsVerified     string
	BarNumber      string
	Specialization string
	CreatedAt      string
	UpdatedAt      string
}

// UserIdentity is the schema definition for users.identity
var UserIdentity = UserIdentityTable{
	Table:          "users.identity",
	ID:             "id",
	Name:           "name",
	Email:          "email",
	Password:       "passwordhash",
	Phone:          "phone",
	Role:           "role",
	IsVerified:     "isverified",
	BarNumber:      "barnumber",
	Specialization: "specialization",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}
