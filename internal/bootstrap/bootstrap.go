// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package bootstrap performs the idempotent first-run initialization inside
// the container: generate server keys if absent, render the server config if
// absent, then hand control to the daemon. There is no rollback on partial
// failure; whatever was written stays on disk for the next invocation to
// find, which makes a crashed bootstrap resumable.
package bootstrap

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"syscall"

	"github.com/sharedco/awgman/internal/awgconf"
	"github.com/sharedco/awgman/internal/config"
	"github.com/sharedco/awgman/internal/registry"
)

// KeyProvider mirrors registry.KeyProvider for the pieces bootstrap needs.
type KeyProvider interface {
	GenerateKeyPair() (privateKey, publicKey string, err error)
}

// Run initializes the server state and execs the daemon, replacing the
// current process. Only returns on error.
func Run(cfg *config.Config, keys KeyProvider) error {
	keysPath := config.ServerKeysPath(cfg.ConfigDir)
	confPath := config.ServerConfPath(cfg.ConfigDir)

	serverKeys, err := EnsureKeys(keysPath, keys)
	if err != nil {
		return err
	}

	if err := EnsureConfig(confPath, cfg, serverKeys); err != nil {
		return err
	}

	return execDaemon(cfg, confPath)
}

// EnsureKeys loads the server keypair, generating and persisting one when the
// keys file is absent.
func EnsureKeys(path string, keys KeyProvider) (*registry.ServerKeys, error) {
	existing, err := registry.ReadServerKeys(path)
	if err == nil {
		return existing, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read server keys: %w", err)
	}

	log.Printf("Generating server keys at %s", path)
	privateKey, publicKey, err := keys.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("generate server keypair: %w", err)
	}

	serverKeys := &registry.ServerKeys{PrivateKey: privateKey, PublicKey: publicKey}
	if err := registry.WriteServerKeys(path, serverKeys); err != nil {
		return nil, fmt.Errorf("write server keys: %w", err)
	}
	return serverKeys, nil
}

// EnsureConfig renders the server [Interface] section from the environment
// settings when no config exists yet. An existing config is reused untouched,
// peer stanzas included.
func EnsureConfig(path string, cfg *config.Config, serverKeys *registry.ServerKeys) error {
	if _, err := os.Stat(path); err == nil {
		log.Printf("Reusing existing server config at %s", path)
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	address, err := serverAddress(cfg.VPNNetwork)
	if err != nil {
		return err
	}

	iface := awgconf.ServerInterface{
		Address:     address,
		ListenPort:  cfg.ListenPort,
		PrivateKey:  serverKeys.PrivateKey,
		Obfuscation: cfg.Obfuscation,
	}

	log.Printf("Rendering server config at %s (address %s, port %d)", path, address, cfg.ListenPort)
	if err := os.WriteFile(path, iface.Render(), 0o600); err != nil {
		return fmt.Errorf("write server config: %w", err)
	}
	return nil
}

// serverAddress assigns the server the first host of the VPN subnet,
// e.g. "10.8.0.0/24" yields "10.8.0.1/24".
func serverAddress(vpnNetwork string) (string, error) {
	_, subnet, err := net.ParseCIDR(vpnNetwork)
	if err != nil {
		return "", fmt.Errorf("invalid VPN network %q: %w", vpnNetwork, err)
	}

	ip := subnet.IP.To4()
	if ip == nil {
		return "", fmt.Errorf("invalid VPN network %q: not IPv4", vpnNetwork)
	}
	ip[3]++

	bits, _ := subnet.Mask.Size()
	return fmt.Sprintf("%s/%d", ip, bits), nil
}

// execDaemon replaces the current process with the daemon, handing it the
// finalized config path as the final argument.
func execDaemon(cfg *config.Config, confPath string) error {
	if len(cfg.DaemonCmd) == 0 {
		return fmt.Errorf("no daemon command configured")
	}

	argv := append(append([]string{}, cfg.DaemonCmd...), confPath)
	binary, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("daemon binary %q not found: %w", argv[0], err)
	}

	log.Printf("Handing off to %v", argv)
	return syscall.Exec(binary, argv, os.Environ())
}
