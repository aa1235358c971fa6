// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pbmerdeka/lpk-server/internal/auth"
	"github.com/pbmerdeka/lpk-server/internal/models"
	authsvc "github.com/pbmerdeka/lpk-server/internal/services/auth"
	"github.com/pbmerdeka/lpk-server/internal/services/twofactor"
)

// LoginRequest is the request body for password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the password first factor. When the account has a second
// factor enabled no session is issued; the client must follow up on the
// challenge endpoint. Otherwise the session cookie is set right away.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	enabled, err := h.twoFactor.Status(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if enabled {
		return c.JSON(http.StatusOK, map[string]any{
			"requires_two_factor": true,
		})
	}

	return h.issueSession(c, user)
}

// PrecheckRequest is the request body for the login precheck.
type PrecheckRequest struct {
	Email string `json:"email"`
}

// Precheck reports whether the account needs a second factor, so the client
// can decide whether to render the code entry step. Unknown emails answer
// "not required" with the identical response shape.
func (h *Handlers) Precheck(c echo.Context) error {
	var req PrecheckRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email is required"})
	}

	required, err := h.twoFactor.Precheck(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"two_factor_required": required,
	})
}

// ChallengeRequest is the request body for the second-factor login step.
type ChallengeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Challenge verifies the second factor and issues the session. It runs
// before a session exists, so it is keyed by email; the password check
// happened in the preceding login step.
func (h *Handlers) Challenge(c echo.Context) error {
	var req ChallengeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and code are required"})
	}

	limitKey := "challenge:" + req.Email + ":" + c.RealIP()
	if !h.limiter.Allow(limitKey) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many attempts, try again later"})
	}

	user, err := h.twoFactor.VerifyChallenge(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return h.twoFactorError(c, err)
	}

	h.limiter.Reset(limitKey)
	return h.issueSession(c, user)
}

// Logout revokes the current session and clears the cookie.
func (h *Handlers) Logout(c echo.Context) error {
	token := auth.GetSessionToken(c.Request().Context())
	if token != "" {
		if err := h.sessions.Revoke(c.Request().Context(), token); err != nil {
			return err
		}
	}
	c.SetCookie(h.sessions.ClearCookie())
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// ChangePasswordRequest is the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword updates the authenticated user's password.
func (h *Handlers) ChangePassword(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	err := h.auth.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		case errors.Is(err, authsvc.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "password does not meet requirements"})
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// issueSession mints a session for a fully authenticated user and sets the
// cookie. Both login paths end here; this is the only place a session is
// created.
func (h *Handlers) issueSession(c echo.Context, user *models.User) error {
	_, cookie, err := h.sessions.Issue(
		c.Request().Context(),
		user,
		c.RealIP(),
		c.Request().UserAgent(),
	)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// twoFactorError maps service errors to HTTP responses.
func (h *Handlers) twoFactorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, twofactor.ErrInvalidCodeFormat):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "verification code must be 6 digits"})
	case errors.Is(err, twofactor.ErrNotProvisioned):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no two-factor secret found, generate one first"})
	case errors.Is(err, twofactor.ErrInvalidCode):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid verification code"})
	default:
		return err
	}
}
