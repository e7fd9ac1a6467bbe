// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package wireguard generates and validates the Curve25519 key material used
// by the AmneziaWG daemon. Keys are handled everywhere else as opaque
// base64-encoded 32-byte tokens.
package wireguard

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// GenerateKeyPair generates a new key pair. AmneziaWG keys are standard
// WireGuard Curve25519 keys.
func GenerateKeyPair() (privateKey, publicKey string, err error) {
	privateKeyBytes := make([]byte, 32)
	if _, err := rand.Read(privateKeyBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Clamp the private key (WireGuard requirement)
	// Set bits: 0, 1, 2 = 0; bit 254 = 1; bit 255 = 0
	privateKeyBytes[0] &= 248
	privateKeyBytes[31] &= 127
	privateKeyBytes[31] |= 64

	publicKeyBytes, err := curve25519.X25519(privateKeyBytes, curve25519.Basepoint)
	if err != nil {
		return "", "", fmt.Errorf("failed to derive public key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(privateKeyBytes),
		base64.StdEncoding.EncodeToString(publicKeyBytes), nil
}

// GeneratePresharedKey generates a symmetric preshared key, mixed into the
// handshake for post-quantum hardening.
func GeneratePresharedKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// DerivePublicKey derives the public key from a private key. Useful for
// recovering the server public key when only the config's PrivateKey survives.
func DerivePublicKey(privateKey string) (string, error) {
	privateKeyBytes, err := base64.StdEncoding.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode private key: %w", err)
	}

	if len(privateKeyBytes) != 32 {
		return "", fmt.Errorf("invalid private key length: expected 32 bytes, got %d", len(privateKeyBytes))
	}

	publicKeyBytes, err := curve25519.X25519(privateKeyBytes, curve25519.Basepoint)
	if err != nil {
		return "", fmt.Errorf("failed to derive public key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(publicKeyBytes), nil
}

// ValidateKey validates that a key is a properly encoded 32-byte value.
func ValidateKey(key string) error {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return fmt.Errorf("not valid base64: %w", err)
	}

	if len(decoded) != 32 {
		return fmt.Errorf("invalid key length: expected 32 bytes, got %d", len(decoded))
	}

	return nil
}

// Generator is the default key provider backed by the functions above.
type Generator struct{}

func (Generator) GenerateKeyPair() (string, string, error) {
	return GenerateKeyPair()
}

func (Generator) GeneratePresharedKey() (string, error) {
	return GeneratePresharedKey()
}

func (Generator) DerivePublicKey(privateKey string) (string, error) {
	return DerivePublicKey(privateKey)
}
