// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package twofactor

import "errors"

var (
	// ErrNotProvisioned indicates the operation needs a provisioned secret
	// that does not exist yet (e.g. confirming before generating).
	ErrNotProvisioned = errors.New("no two-factor secret provisioned")

	// ErrInvalidCode indicates the submitted code was not accepted. The
	// message is deliberately generic; expired and wrong codes are not
	// distinguished.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrInvalidCodeFormat indicates the submitted code is malformed
	// (not 6 digits and not a recovery code).
	ErrInvalidCodeFormat = errors.New("verification code must be 6 digits")
)
