// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package recovery generates single-use fallback codes handed to the user
// when the two-factor credential is enabled.
package recovery

import (
	"crypto/rand"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the length of each recovery code (without dashes).
	CodeLength = 12
	// CodeCount is the default number of recovery codes to generate.
	CodeCount = 8

	bcryptCost = 10
)

// alphabet for recovery codes (lowercase + digits, excluding confusing chars: 0, o, l, 1).
const alphabet = "23456789abcdefghjkmnpqrstuvwxyz"

// GenerateCodes generates recovery codes and their bcrypt hashes.
// Returns (formatted plaintext codes for one-time display, hashes for storage).
func GenerateCodes(count int) (plaintexts, hashes []string, err error) {
	if count <= 0 {
		count = CodeCount
	}

	plaintexts = make([]string, count)
	hashes = make([]string, count)

	for i := range count {
		code, err := randomCode(CodeLength)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate code: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to hash code: %w", err)
		}

		plaintexts[i] = formatCode(code)
		hashes[i] = string(hash)
	}

	return plaintexts, hashes, nil
}

// Normalize removes dashes and lowercases a user-submitted code so it can be
// compared against the stored hash.
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf), nil
}

// formatCode groups a code into dash-separated blocks (e.g. "a1b2-c3d4-e5f6").
func formatCode(code string) string {
	var parts []string
	for i := 0; i < len(code); i += 4 {
		end := min(i+4, len(code))
		parts = append(parts, code[i:end])
	}
	return strings.Join(parts, "-")
}
