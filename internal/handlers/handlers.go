// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers for the auth API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pbmerdeka/lpk-server/internal/ratelimit"
	"github.com/pbmerdeka/lpk-server/internal/services/auth"
	"github.com/pbmerdeka/lpk-server/internal/services/session"
	"github.com/pbmerdeka/lpk-server/internal/services/twofactor"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	auth      *auth.Service
	twoFactor *twofactor.Service
	sessions  *session.Manager
	limiter   *ratelimit.Limiter
}

// New creates a new Handlers instance.
func New(authSvc *auth.Service, twoFactorSvc *twofactor.Service, sessions *session.Manager, limiter *ratelimit.Limiter) *Handlers {
	return &Handlers{
		auth:      authSvc,
		twoFactor: twoFactorSvc,
		sessions:  sessions,
		limiter:   limiter,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
