// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package qrcode_test

import (
	"strings"
	"testing"

	"github.com/pbmerdeka/lpk-server/internal/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	png, err := qrcode.PNG("otpauth://totp/LPK:siswa@example.com?secret=ABC", 0)

	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestPNG_EmptyContent(t *testing.T) {
	_, err := qrcode.PNG("   ", 128)

	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}

func TestDataURI(t *testing.T) {
	uri, err := qrcode.DataURI("otpauth://totp/LPK:siswa@example.com?secret=ABC", 128)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}
