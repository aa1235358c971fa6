// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package models

import "time"

// User roles as stored in the users.role column.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents an account holder. TwoFactorEnabled mirrors the enabled
// flag on the user's TwoFactorCredential and must only be changed together
// with it inside a single transaction.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID               int64     `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	Name             string    `db:"name" json:"name"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Role             string    `db:"role" json:"role"`
	TwoFactorEnabled bool      `db:"two_factor_enabled" json:"two_factor_enabled"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
