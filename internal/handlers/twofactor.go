// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pbmerdeka/lpk-server/internal/auth"
)

// TwoFactorGenerate provisions a fresh TOTP secret for the authenticated
// user and returns it together with the otpauth URI and a QR code image.
// Any earlier secret is replaced and the second factor is switched off
// until the new secret is confirmed.
func (h *Handlers) TwoFactorGenerate(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	prov, err := h.twoFactor.Provision(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"secret":      prov.Secret,
		"otpauth_uri": prov.OTPAuthURI,
		"qr_code":     prov.QRCodeImage,
	})
}

// TwoFactorEnableRequest is the request body for confirming enrollment.
type TwoFactorEnableRequest struct {
	Code string `json:"code"`
}

// TwoFactorEnable confirms enrollment with a code from the authenticator
// app. On success the second factor is active and a fresh set of recovery
// codes is returned; this is the only time they are shown in plaintext.
func (h *Handlers) TwoFactorEnable(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	var req TwoFactorEnableRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code is required"})
	}

	limitKey := "enable:" + user.Email
	if !h.limiter.Allow(limitKey) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many attempts, try again later"})
	}

	recoveryCodes, err := h.twoFactor.ConfirmEnable(c.Request().Context(), user, req.Code)
	if err != nil {
		return h.twoFactorError(c, err)
	}

	h.limiter.Reset(limitKey)
	return c.JSON(http.StatusOK, map[string]any{
		"success":        true,
		"recovery_codes": recoveryCodes,
	})
}

// TwoFactorDisable switches the second factor off for the authenticated
// user and discards their recovery codes.
func (h *Handlers) TwoFactorDisable(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	if err := h.twoFactor.Disable(c.Request().Context(), user.ID); err != nil {
		return h.twoFactorError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// TwoFactorStatus reports whether the authenticated user has the second
// factor enabled.
func (h *Handlers) TwoFactorStatus(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	enabled, err := h.twoFactor.Status(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"enabled": enabled})
}
