// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package totp_test

import (
	"encoding/base32"
	"testing"
	"time"

	"github.com/pbmerdeka/lpk-server/internal/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the ASCII secret "12345678901234567890" from RFC 6238
// appendix B, base32-encoded.
var rfcSecret = base32.StdEncoding.WithPadding(base32.NoPadding).
	EncodeToString([]byte("12345678901234567890"))

func TestCode_RFC6238Vectors(t *testing.T) {
	// RFC 6238 appendix B vectors for HMAC-SHA1, reduced to 6 digits.
	vectors := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, v := range vectors {
		code, err := totp.Code(rfcSecret, time.Unix(v.unix, 0))
		require.NoError(t, err)
		assert.Equal(t, v.code, code, "t=%d", v.unix)
	}
}

func TestGenerateSecret(t *testing.T) {
	secret, err := totp.GenerateSecret()

	require.NoError(t, err)
	// 20 random bytes encode to 32 base32 characters without padding.
	assert.Len(t, secret, 32)

	other, err := totp.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestValidateAt_RoundTrip(t *testing.T) {
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	now := time.Now()
	code, err := totp.Code(secret, now)
	require.NoError(t, err)

	ok, err := totp.ValidateAt(secret, code, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateAt_DriftWindow(t *testing.T) {
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	// Pick a reference time in the middle of a step so adjacent-step codes
	// are deterministic.
	now := time.Unix(2_000_000_015, 0)
	code, err := totp.Code(secret, now)
	require.NoError(t, err)

	cases := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"current step", now, true},
		{"one step earlier", now.Add(-totp.Period), true},
		{"one step later", now.Add(totp.Period), true},
		{"two steps earlier", now.Add(-2 * totp.Period), false},
		{"two steps later", now.Add(2 * totp.Period), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := totp.ValidateAt(secret, code, tc.at)
			require.NoError(t, err)
			assert.Equal(t, tc.valid, ok)
		})
	}
}

func TestValidateAt_RejectsMalformedCodes(t *testing.T) {
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "12345a", "abcdef"} {
		_, err := totp.ValidateAt(secret, code, time.Now())
		assert.ErrorIs(t, err, totp.ErrInvalidCodeFormat, "code=%q", code)
	}
}

func TestValidateAt_RejectsInvalidSecret(t *testing.T) {
	_, err := totp.ValidateAt("not base32!", "123456", time.Now())
	assert.ErrorIs(t, err, totp.ErrInvalidSecret)
}

func TestProvisioningURI(t *testing.T) {
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	uri, err := totp.ProvisioningURI("LPK PB Merdeka", "siswa@example.com", secret)

	require.NoError(t, err)
	assert.Contains(t, uri, "otpauth://totp/LPK%20PB%20Merdeka:siswa@example.com?")
	assert.Contains(t, uri, "secret="+secret)
	assert.Contains(t, uri, "issuer=LPK+PB+Merdeka")
	assert.Contains(t, uri, "algorithm=SHA1")
	assert.Contains(t, uri, "digits=6")
	assert.Contains(t, uri, "period=30")
}

func TestProvisioningURI_Validation(t *testing.T) {
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	_, err = totp.ProvisioningURI("", "siswa@example.com", secret)
	assert.ErrorIs(t, err, totp.ErrMissingIssuer)

	_, err = totp.ProvisioningURI("LPK PB Merdeka", "", secret)
	assert.ErrorIs(t, err, totp.ErrMissingAccountName)

	_, err = totp.ProvisioningURI("LPK PB Merdeka", "siswa@example.com", "???")
	assert.ErrorIs(t, err, totp.ErrInvalidSecret)
}
