// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package twofactor implements the TOTP enrollment and verification flow:
// secret provisioning, enrollment confirmation, the login-time challenge and
// disabling. State lives in the two_factor_credentials table plus the
// mirrored flag on the user row; both are always changed together.
package twofactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/pbmerdeka/lpk-server/internal/models"
	"github.com/pbmerdeka/lpk-server/internal/qrcode"
	"github.com/pbmerdeka/lpk-server/internal/repository"
	"github.com/pbmerdeka/lpk-server/internal/services/recovery"
	"github.com/pbmerdeka/lpk-server/internal/totp"
)

// qrSize is the edge length of the enrollment QR code in pixels.
const qrSize = 256

var totpCodePattern = regexp.MustCompile(`^\d{6}$`)

// Provisioning is the one-time enrollment payload. The secret and QR code
// are shown exactly once, at generation time, and never re-served.
type Provisioning struct {
	Secret      string `json:"secret"`
	OTPAuthURI  string `json:"otpauth_uri"`
	QRCodeImage string `json:"qr_code"`
}

// Service implements the two-factor state machine over the repository.
type Service struct {
	repo   *repository.Repository
	issuer string
}

// NewService creates a two-factor service. The issuer is the name shown in
// authenticator apps.
func NewService(repo *repository.Repository, issuer string) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Provision generates a fresh secret for the user, stores it not yet
// enabled, and returns the enrollment payload. Provisioning always restarts
// enrollment: any previous secret is overwritten and an already-enabled
// account drops back to disabled until the new secret is confirmed.
func (s *Service) Provision(ctx context.Context, user *models.User) (*Provisioning, error) {
	secret, err := totp.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	uri, err := totp.ProvisioningURI(s.issuer, user.Email, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to build provisioning URI: %w", err)
	}

	qrImage, err := qrcode.DataURI(uri, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	if err := s.repo.UpsertTwoFactorSecret(ctx, user.ID, secret); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}

	slog.Info("2fa_provisioned", "user_id", user.ID)

	return &Provisioning{
		Secret:      secret,
		OTPAuthURI:  uri,
		QRCodeImage: qrImage,
	}, nil
}

// ConfirmEnable verifies the submitted code against the pending secret and,
// on success, atomically enables the second factor on both the credential
// and the user row. It returns freshly generated recovery codes for
// one-time display.
func (s *Service) ConfirmEnable(ctx context.Context, user *models.User, code string) ([]string, error) {
	if !totpCodePattern.MatchString(code) {
		return nil, ErrInvalidCodeFormat
	}

	cred, err := s.repo.GetTwoFactorByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotProvisioned
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	ok, err := totp.Validate(cred.Secret, code)
	if err != nil {
		return nil, fmt.Errorf("failed to validate code: %w", err)
	}
	if !ok {
		slog.Warn("2fa_enable_failed", "user_id", user.ID, "reason", "invalid_code")
		return nil, ErrInvalidCode
	}

	plaintexts, hashes, err := recovery.GenerateCodes(recovery.CodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recovery codes: %w", err)
	}

	// One transaction: the flags never come up without a code set behind them.
	if err := s.repo.EnableTwoFactor(ctx, user.ID, hashes); err != nil {
		return nil, fmt.Errorf("failed to enable two-factor: %w", err)
	}

	slog.Info("2fa_enabled", "user_id", user.ID)

	return plaintexts, nil
}

// Disable turns the second factor off on both records atomically. The
// secret is kept so re-enabling does not require scanning a new QR code;
// recovery codes are invalidated.
func (s *Service) Disable(ctx context.Context, userID int64) error {
	if err := s.repo.SetTwoFactorEnabled(ctx, userID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotProvisioned
		}
		return fmt.Errorf("failed to disable two-factor: %w", err)
	}

	if err := s.repo.DeleteRecoveryCodes(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete recovery codes: %w", err)
	}

	slog.Info("2fa_disabled", "user_id", userID)
	return nil
}

// Status reports whether the second factor is enabled for a user. A missing
// credential counts as disabled.
func (s *Service) Status(ctx context.Context, userID int64) (bool, error) {
	cred, err := s.repo.GetTwoFactorByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get credential: %w", err)
	}
	return cred.Enabled, nil
}

// Precheck reports whether the account with the given email requires a
// second factor at login. Unknown emails answer "not required" with the
// same response shape as a known account without a second factor, so the
// endpoint cannot be used to enumerate accounts.
func (s *Service) Precheck(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	enabled, err := s.Status(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return enabled, nil
}

// VerifyChallenge validates the second factor for the login flow, keyed by
// email because it runs before a session exists. It accepts either a
// 6-digit TOTP code or an unused recovery code. All failures surface as
// ErrInvalidCode; the endpoint never reveals whether the account exists or
// has a second factor enabled.
func (s *Service) VerifyChallenge(ctx context.Context, email, code string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	cred, err := s.repo.GetTwoFactorByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	if !cred.Enabled {
		return nil, ErrInvalidCode
	}

	if totpCodePattern.MatchString(code) {
		ok, err := totp.Validate(cred.Secret, code)
		if err != nil {
			return nil, fmt.Errorf("failed to validate code: %w", err)
		}
		if ok {
			return user, nil
		}
		slog.Warn("2fa_challenge_failed", "user_id", user.ID, "reason", "invalid_code")
		return nil, ErrInvalidCode
	}

	// Fall back to recovery codes for users who lost their authenticator.
	// Malformed input gets the same generic error as a wrong code; the
	// endpoint is unauthenticated and reveals nothing about format handling.
	normalized := recovery.Normalize(code)
	if len(normalized) != recovery.CodeLength {
		return nil, ErrInvalidCode
	}
	ok, err := s.repo.ConsumeRecoveryCode(ctx, user.ID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check recovery code: %w", err)
	}
	if !ok {
		slog.Warn("2fa_challenge_failed", "user_id", user.ID, "reason", "invalid_recovery_code")
		return nil, ErrInvalidCode
	}

	slog.Info("2fa_recovery_code_used", "user_id", user.ID)
	return user, nil
}
