// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/pbmerdeka/lpk-server/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// GetUnusedRecoveryCodes retrieves unused recovery codes for a user.
func (r *Repository) GetUnusedRecoveryCodes(ctx context.Context, userID int64) ([]models.RecoveryCode, error) {
	var codes []models.RecoveryCode
	err := r.db.SelectContext(ctx, &codes,
		`SELECT * FROM recovery_codes WHERE user_id = ? AND used = 0`, userID)
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// MarkRecoveryCodeUsed marks a recovery code as used.
func (r *Repository) MarkRecoveryCodeUsed(ctx context.Context, codeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recovery_codes SET used = 1, used_at = CURRENT_TIMESTAMP WHERE id = ?`,
		codeID)
	return err
}

// DeleteRecoveryCodes deletes all recovery codes for a user.
func (r *Repository) DeleteRecoveryCodes(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recovery_codes WHERE user_id = ?`, userID)
	return err
}

// ConsumeRecoveryCode checks code against the user's unused recovery codes
// and marks the matching one as used. Returns false when no code matches.
func (r *Repository) ConsumeRecoveryCode(ctx context.Context, userID int64, code string) (bool, error) {
	codes, err := r.GetUnusedRecoveryCodes(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, c := range codes {
		if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) == nil {
			if markErr := r.MarkRecoveryCodeUsed(ctx, c.ID); markErr != nil {
				return false, markErr
			}
			return true, nil
		}
	}

	return false, nil
}
