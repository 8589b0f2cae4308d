// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model holds the row types shared by the store, the services and the
// CLI. Types carry bun tags so the store can map them without an extra
// conversion layer.
package model

import (
	"fmt"

	"github.com/uptrace/bun"
)

// DefaultRole is assigned to users registered without an explicit role.
const DefaultRole = "user"

// DefaultStatus is assigned to incidents and tickets inserted without a status.
const DefaultStatus = "open"

// User is a stored credential record. SecretHash is opaque and never leaves
// the process except through backups.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Name       string `bun:"name,notnull,unique" json:"name"`
	SecretHash string `bun:"secret_hash,notnull" json:"secret_hash"`
	HashScheme string `bun:"hash_scheme,notnull" json:"hash_scheme"`
	Role       string `bun:"role,notnull" json:"role"`
}

// Summary strips the credential from a user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Role: u.Role}
}

// String returns the name with its role, e.g. alice (admin).
func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.Role)
}

// UserSummary is the listing projection of a user.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
