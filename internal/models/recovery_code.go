// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package models

import "time"

// RecoveryCode stores a bcrypt-hashed single-use fallback code issued when
// the two-factor credential is enabled. Used codes stay in the table for
// audit purposes.
type RecoveryCode struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	CodeHash  string     `db:"code_hash" json:"-"`
	Used      bool       `db:"used" json:"used"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
}
