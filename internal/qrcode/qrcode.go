// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package qrcode renders provisioning URIs as scannable images for the
// two-factor enrollment screen.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: content cannot be empty")

// defaultSize is the image edge length in pixels when no size is given.
const defaultSize = 256

// PNG encodes content as a QR code PNG image.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// DataURI encodes content as a QR code and returns it as a data: URI usable
// directly in an <img> src attribute.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
