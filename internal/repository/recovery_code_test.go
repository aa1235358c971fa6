// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/pbmerdeka/lpk-server/internal/models"
	"github.com/pbmerdeka/lpk-server/internal/repository"
	"github.com/pbmerdeka/lpk-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashCode(t *testing.T, code string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// seedCodes gives the user a credential and stores the hashed codes.
func seedCodes(t *testing.T, repo *repository.Repository, user *models.User, hashes []string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.UpsertTwoFactorSecret(ctx, user.ID, "JBSWY3DPEHPK3PXP"))
	require.NoError(t, repo.EnableTwoFactor(ctx, user.ID, hashes))
}

func TestConsumeRecoveryCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "siswa@example.com")
	seedCodes(t, repo, user, []string{hashCode(t, "aaaa"), hashCode(t, "bbbb")})

	ok, err := repo.ConsumeRecoveryCode(ctx, user.ID, "bbbb")
	require.NoError(t, err)
	assert.True(t, ok)

	// Codes are single-use.
	ok, err = repo.ConsumeRecoveryCode(ctx, user.ID, "bbbb")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ConsumeRecoveryCode(ctx, user.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteRecoveryCodes(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "siswa@example.com")
	seedCodes(t, repo, user, []string{hashCode(t, "aaaa")})

	require.NoError(t, repo.DeleteRecoveryCodes(ctx, user.ID))

	codes, err := repo.GetUnusedRecoveryCodes(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, codes)
}
