// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package totp

import "errors"

var (
	// ErrInvalidSecret indicates the secret is not valid unpadded base32.
	ErrInvalidSecret = errors.New("totp: invalid secret")
	// ErrInvalidCodeFormat indicates the submitted code is not 6 digits.
	ErrInvalidCodeFormat = errors.New("totp: code must be 6 digits")
	// ErrMissingIssuer indicates no issuer was given for the key URI.
	ErrMissingIssuer = errors.New("totp: missing issuer")
	// ErrMissingAccountName indicates no account label was given for the key URI.
	ErrMissingAccountName = errors.New("totp: missing account name")
)
