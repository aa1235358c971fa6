// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package session owns login-session issuance and the cookie contract.
// Every login path (password only, or password plus second factor) mints its
// session here so cookie naming and attributes exist in exactly one place.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pbmerdeka/lpk-server/internal/models"
	"github.com/pbmerdeka/lpk-server/internal/repository"
)

var (
	// ErrSessionNotFound indicates no session exists for the token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates the session has passed its expiry time.
	ErrSessionExpired = errors.New("session expired")
)

// DefaultTTL is the validity horizon of a freshly issued session.
const DefaultTTL = 7 * 24 * time.Hour

// securePrefix is prepended to the cookie name on TLS deployments so the
// browser enforces the Secure attribute.
const securePrefix = "__Secure-"

// Config controls cookie naming and session lifetime.
type Config struct {
	CookieName string        // base cookie name, without the secure prefix
	TTL        time.Duration // session lifetime; DefaultTTL when zero
	Secure     bool          // true when the deployment is served over TLS
}

// Manager issues, authenticates and revokes database-backed sessions.
type Manager struct {
	repo *repository.Repository
	cfg  Config
}

// NewManager creates a session manager.
func NewManager(repo *repository.Repository, cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "lpk_session"
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{repo: repo, cfg: cfg}
}

// CookieName returns the effective cookie name, including the secure prefix
// on TLS deployments.
func (m *Manager) CookieName() string {
	if m.cfg.Secure {
		return securePrefix + m.cfg.CookieName
	}
	return m.cfg.CookieName
}

// Issue mints a new session for the user and returns it together with the
// cookie carrying the bearer token. The caller is responsible for having
// completed all required authentication factors first.
func (m *Manager) Issue(ctx context.Context, user *models.User, ipAddress, userAgent string) (*models.Session, *http.Cookie, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(m.cfg.TTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := m.repo.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, m.cookie(session.Token, session.ExpiresAt), nil
}

// Authenticate resolves a bearer token to its user. Expired sessions are
// deleted on sight.
func (m *Manager) Authenticate(ctx context.Context, token string) (*models.User, error) {
	session, err := m.repo.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.IsExpired() {
		_ = m.repo.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := m.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}

	return user, nil
}

// Revoke deletes the session for the given token.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	return m.repo.DeleteSession(ctx, token)
}

// ClearCookie returns a cookie that removes the session cookie in the browser.
func (m *Manager) ClearCookie() *http.Cookie {
	cookie := m.cookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	return cookie
}

func (m *Manager) cookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
