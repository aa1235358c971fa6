// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package recovery_test

import (
	"strings"
	"testing"

	"github.com/pbmerdeka/lpk-server/internal/services/recovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateCodes(t *testing.T) {
	plaintexts, hashes, err := recovery.GenerateCodes(0)

	require.NoError(t, err)
	require.Len(t, plaintexts, recovery.CodeCount)
	require.Len(t, hashes, recovery.CodeCount)

	seen := make(map[string]bool)
	for i, code := range plaintexts {
		// Formatted as dash-separated blocks of four.
		assert.Regexp(t, `^[23456789abcdefghjkmnpqrstuvwxyz]{4}(-[23456789abcdefghjkmnpqrstuvwxyz]{4}){2}$`, code)
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true

		// Hash matches the normalized plaintext.
		normalized := recovery.Normalize(code)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashes[i]), []byte(normalized)))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a1b2c3d4e5f6", recovery.Normalize(" A1B2-C3D4-E5F6 "))
	assert.Equal(t, "abc", recovery.Normalize("abc"))
}

func TestGenerateCodes_CustomCount(t *testing.T) {
	plaintexts, _, err := recovery.GenerateCodes(3)

	require.NoError(t, err)
	assert.Len(t, plaintexts, 3)
	for _, code := range plaintexts {
		assert.Len(t, strings.ReplaceAll(code, "-", ""), recovery.CodeLength)
	}
}
