// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package models

import "time"

// TwoFactorCredential holds the TOTP shared secret for a user. There is at
// most one row per user. Enabled is false while enrollment is pending or
// after the user turned the second factor off; an enabled credential always
// has a non-empty secret.
type TwoFactorCredential struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Secret    string    `db:"secret" json:"-"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
