// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package config

import (
	"path/filepath"
)

// Persisted layout under the config directory:
//
//	server.conf
//	server.keys
//	clients/<name>/{privatekey,publickey,presharedkey,<name>.conf}

func ServerConfPath(configDir string) string {
	return filepath.Join(configDir, "server.conf")
}

func ServerKeysPath(configDir string) string {
	return filepath.Join(configDir, "server.keys")
}

func ClientsDir(configDir string) string {
	return filepath.Join(configDir, "clients")
}

func ClientDir(configDir, name string) string {
	return filepath.Join(ClientsDir(configDir), name)
}
