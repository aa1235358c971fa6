// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package middleware provides Echo middleware for session authentication.
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pbmerdeka/lpk-server/internal/auth"
	"github.com/pbmerdeka/lpk-server/internal/services/session"
)

// LoadUser resolves the session cookie to a user and stores it in the
// request context. Requests without a valid session pass through
// unauthenticated; gating is left to RequireAuth.
func LoadUser(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessions.CookieName())
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := sessions.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
					c.SetCookie(sessions.ClearCookie())
					return next(c)
				}
				return err
			}

			ctx := auth.SetUser(c.Request().Context(), user)
			ctx = auth.SetSessionToken(ctx, cookie.Value)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuth rejects requests without an authenticated user.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}

// RequireAdmin rejects requests unless the user holds the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := auth.GetUser(c.Request().Context())
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		if !user.IsAdmin() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	}
}
