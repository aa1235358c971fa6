// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package totp implements the RFC 4226/6238 one-time password algorithm
// used for two-factor enrollment and login challenges. Codes are 6 digits,
// HMAC-SHA1, with a 30 second time step; these parameters are fixed for
// compatibility with common authenticator apps.
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated by RFC 6238 for authenticator-app interop
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// Digits is the number of digits in a generated code.
	Digits = 6
	// Period is the validity window of a single code.
	Period = 30 * time.Second
	// secretBytes is the raw secret length: 160 bits per RFC 4226.
	secretBytes = 20
	// driftSteps is the number of time steps accepted on either side of the
	// current one, to absorb clock skew between server and authenticator.
	driftSteps = 1
)

var (
	// base32 without padding, the encoding authenticator apps expect.
	secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

	secretPattern = regexp.MustCompile(`^[A-Z2-7]+$`)
	codePattern   = regexp.MustCompile(`^\d{6}$`)
)

// GenerateSecret returns a fresh base32-encoded shared secret suitable for
// provisioning an authenticator app.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("totp: generate secret: %w", err)
	}
	return secretEncoding.EncodeToString(buf), nil
}

// ProvisioningURI builds an otpauth:// key URI for the given issuer, account
// label (usually the user's email) and secret, following the Key Uri Format
// understood by authenticator apps.
func ProvisioningURI(issuer, accountName, secret string) (string, error) {
	if issuer == "" {
		return "", ErrMissingIssuer
	}
	if accountName == "" {
		return "", ErrMissingAccountName
	}
	if _, err := decodeSecret(secret); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("secret", normalizeSecret(secret))
	query.Set("issuer", issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", strconv.Itoa(Digits))
	query.Set("period", strconv.Itoa(int(Period.Seconds())))

	label := url.PathEscape(issuer) + ":" + url.PathEscape(accountName)
	return "otpauth://totp/" + label + "?" + query.Encode(), nil
}

// Code computes the code valid for the time step containing t.
func Code(secret string, t time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotp(key, counterAt(t)), nil
}

// Validate reports whether code is valid for secret at the current time,
// accepting the previous and next time step as drift tolerance.
func Validate(secret, code string) (bool, error) {
	return ValidateAt(secret, code, time.Now())
}

// ValidateAt is Validate with an explicit reference time.
func ValidateAt(secret, code string, t time.Time) (bool, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return false, ErrInvalidCodeFormat
	}

	counter := counterAt(t)
	valid := false
	// Check every step in the window unconditionally so the comparison cost
	// does not depend on which step matched.
	for step := -driftSteps; step <= driftSteps; step++ {
		want := hotp(key, counter+int64(step))
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			valid = true
		}
	}
	return valid, nil
}

func counterAt(t time.Time) int64 {
	return t.Unix() / int64(Period.Seconds())
}

// hotp implements the RFC 4226 HMAC-based one-time password with dynamic
// truncation, formatted to the fixed digit count.
func hotp(key []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter)) //nolint:gosec // counter is non-negative

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := (uint32(sum[offset])&0x7f)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])

	return fmt.Sprintf("%06d", value%1_000_000)
}

func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.TrimSpace(secret))
}

func decodeSecret(secret string) ([]byte, error) {
	secret = normalizeSecret(secret)
	if !secretPattern.MatchString(secret) {
		return nil, ErrInvalidSecret
	}
	key, err := secretEncoding.DecodeString(secret)
	if err != nil {
		return nil, ErrInvalidSecret
	}
	return key, nil
}
