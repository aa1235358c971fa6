// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pbmerdeka/lpk-server/internal/models"
	"github.com/pbmerdeka/lpk-server/internal/repository"
	"github.com/pbmerdeka/lpk-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(userID int64, expiresAt time.Time) *models.Session {
	return &models.Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: expiresAt,
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	}
}

func TestCreateSession_And_GetByToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "siswa@example.com")

	session := newSession(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSessionByToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "203.0.113.7", got.IPAddress)
	assert.Equal(t, "test-agent", got.UserAgent)
}

func TestGetSessionByToken_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetSessionByToken(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "siswa@example.com")

	session := newSession(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.CreateSession(ctx, session))

	require.NoError(t, repo.DeleteSession(ctx, session.Token))

	_, err := repo.GetSessionByToken(ctx, session.Token)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteExpiredSessions(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "siswa@example.com")

	expired := newSession(user.ID, time.Now().Add(-time.Hour))
	active := newSession(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.CreateSession(ctx, expired))
	require.NoError(t, repo.CreateSession(ctx, active))

	require.NoError(t, repo.DeleteExpiredSessions(ctx))

	_, err := repo.GetSessionByToken(ctx, expired.Token)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetSessionByToken(ctx, active.Token)
	assert.NoError(t, err)
}
