// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package qr exports client configs as QR code images for mobile clients.
package qr

import (
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// WritePNG encodes the config text into a QR code PNG at path.
func WritePNG(conf []byte, path string) error {
	code, err := qrcode.New(string(conf))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	writer, err := standard.New(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := code.Save(writer); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
