// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package registry

import (
	"fmt"
	"os"
	"strings"
)

// ServerKeys is the keypair persisted in server.keys as KEY=value lines:
//
//	PRIVATE_KEY=<base64>
//	PUBLIC_KEY=<base64>
type ServerKeys struct {
	PrivateKey string
	PublicKey  string
}

// ReadServerKeys parses a server.keys file.
func ReadServerKeys(path string) (*ServerKeys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	keys := &ServerKeys{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "PRIVATE_KEY":
			keys.PrivateKey = strings.TrimSpace(value)
		case "PUBLIC_KEY":
			keys.PublicKey = strings.TrimSpace(value)
		}
	}

	if keys.PrivateKey == "" && keys.PublicKey == "" {
		return nil, fmt.Errorf("no keys found in %s", path)
	}
	return keys, nil
}

// WriteServerKeys persists the keypair with restrictive permissions.
func WriteServerKeys(path string, keys *ServerKeys) error {
	content := fmt.Sprintf("PRIVATE_KEY=%s\nPUBLIC_KEY=%s\n", keys.PrivateKey, keys.PublicKey)
	return atomicWrite(path, []byte(content), 0o600)
}
