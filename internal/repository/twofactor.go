// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/pbmerdeka/lpk-server/internal/models"
)

// GetTwoFactorByUserID retrieves the two-factor credential for a user.
func (r *Repository) GetTwoFactorByUserID(ctx context.Context, userID int64) (*models.TwoFactorCredential, error) {
	var cred models.TwoFactorCredential
	err := r.db.GetContext(ctx, &cred,
		`SELECT * FROM two_factor_credentials WHERE user_id = ?`, userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &cred, nil
}

// UpsertTwoFactorSecret stores a freshly provisioned secret for a user.
// Overwriting always resets the credential to not enabled, and clears the
// mirrored users.two_factor_enabled flag in the same transaction, so a
// re-provisioned account must confirm the new secret before the second
// factor counts as enabled again.
func (r *Repository) UpsertTwoFactorSecret(ctx context.Context, userID int64, secret string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO two_factor_credentials (user_id, secret, enabled)
		 VALUES (?, ?, 0)
		 ON CONFLICT (user_id) DO UPDATE SET
		     secret = excluded.secret,
		     enabled = 0,
		     updated_at = CURRENT_TIMESTAMP`,
		userID, secret)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		userID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// EnableTwoFactor enables the credential, the mirrored user flag, and
// replaces the user's recovery codes in a single transaction. Either the
// second factor comes up with a full set of fresh codes or not at all.
// Returns ErrNotFound if the user has no credential.
func (r *Repository) EnableTwoFactor(ctx context.Context, userID int64, codeHashes []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE two_factor_credentials SET enabled = 1, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		userID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recovery_codes WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, hash := range codeHashes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recovery_codes (user_id, code_hash) VALUES (?, ?)`,
			userID, hash); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetTwoFactorEnabled flips the enabled flag on the credential and the
// mirrored flag on the user row atomically. Returns ErrNotFound if the user
// has no credential.
func (r *Repository) SetTwoFactorEnabled(ctx context.Context, userID int64, enabled bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE two_factor_credentials SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		enabled, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		enabled, userID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
