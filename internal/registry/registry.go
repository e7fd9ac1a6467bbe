// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package registry owns the per-client directories under the clients root and
// keeps them consistent with the peer list in the server config. Mutations
// run under an exclusive file lock and rewrite the server config via temp
// file + rename; client directory writes are not transactional, so a crash
// mid-Add can leave an orphaned directory (documented, accepted).
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sharedco/awgman/internal/awgconf"
	"github.com/sharedco/awgman/internal/config"
	"github.com/sharedco/awgman/internal/wireguard"
)

var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrClientExists         = errors.New("client already exists")
	ErrClientNotFound       = errors.New("client not found")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// KeyProvider produces the key material for new clients. Keys are opaque
// base64-encoded 32-byte tokens.
type KeyProvider interface {
	GenerateKeyPair() (privateKey, publicKey string, err error)
	GeneratePresharedKey() (string, error)
	DerivePublicKey(privateKey string) (string, error)
}

// Settings are the client-config rendering inputs that come from the server
// deployment rather than from the server config file.
type Settings struct {
	Endpoint   string // host:port clients dial
	DNS        string
	MTU        int
	Keepalive  int
	AllowedIPs string // routes pushed to the client, e.g. "0.0.0.0/0, ::/0"
}

// Client describes one registered client. PresharedKey is only populated by
// Add, where the caller still needs it to apply the peer to the running
// interface.
type Client struct {
	Name         string
	Address      string
	PublicKey    string
	PresharedKey string
}

// Registry manages clients for the server config under configDir.
type Registry struct {
	configDir string
	keys      KeyProvider
}

func New(configDir string, keys KeyProvider) *Registry {
	return &Registry{configDir: configDir, keys: keys}
}

// ValidateName reports whether a client name is safe to use as a directory
// name and a config tag.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid client name %q: use letters, digits, '-' and '_'", name)
	}
	return nil
}

// Add registers a new client: allocates the next VPN address, generates keys,
// writes the client directory, and appends the peer stanza to the server
// config. Returns ErrServerNotInitialized when the server config is absent
// and ErrClientExists for a duplicate name.
func (r *Registry) Add(name string, settings Settings) (*Client, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := os.Stat(config.ServerConfPath(r.configDir)); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrServerNotInitialized
		}
		return nil, err
	}

	clientDir := config.ClientDir(r.configDir, name)
	if _, err := os.Stat(clientDir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientExists, name)
	}

	var client *Client
	err := r.withLock(func() error {
		// Re-check under the lock; a concurrent Add may have won the race.
		if _, err := os.Stat(clientDir); err == nil {
			return fmt.Errorf("%w: %s", ErrClientExists, name)
		}

		confPath := config.ServerConfPath(r.configDir)
		raw, err := os.ReadFile(confPath)
		if err != nil {
			if os.IsNotExist(err) {
				return ErrServerNotInitialized
			}
			return err
		}
		doc := awgconf.Parse(raw)

		address, err := NextClientIP(doc)
		if err != nil {
			return err
		}

		privateKey, publicKey, err := r.keys.GenerateKeyPair()
		if err != nil {
			return fmt.Errorf("generate keypair: %w", err)
		}
		presharedKey, err := r.keys.GeneratePresharedKey()
		if err != nil {
			return fmt.Errorf("generate preshared key: %w", err)
		}
		for _, key := range []string{privateKey, publicKey, presharedKey} {
			if err := wireguard.ValidateKey(key); err != nil {
				return fmt.Errorf("key provider returned bad key: %w", err)
			}
		}

		serverPublicKey, err := r.serverPublicKey(doc)
		if err != nil {
			return err
		}

		clientConf := awgconf.ClientConfig{
			PrivateKey:      privateKey,
			Address:         address,
			DNS:             settings.DNS,
			MTU:             settings.MTU,
			Obfuscation:     doc.Obfuscation(),
			ServerPublicKey: serverPublicKey,
			PresharedKey:    presharedKey,
			Endpoint:        settings.Endpoint,
			AllowedIPs:      settings.AllowedIPs,
			Keepalive:       settings.Keepalive,
		}

		if err := os.MkdirAll(clientDir, 0o700); err != nil {
			return fmt.Errorf("create client directory: %w", err)
		}
		files := map[string][]byte{
			"privatekey":   []byte(privateKey),
			"publickey":    []byte(publicKey),
			"presharedkey": []byte(presharedKey),
			name + ".conf": clientConf.Render(),
		}
		for fileName, data := range files {
			if err := os.WriteFile(filepath.Join(clientDir, fileName), data, 0o600); err != nil {
				os.RemoveAll(clientDir)
				return fmt.Errorf("write %s: %w", fileName, err)
			}
		}

		doc.AppendPeer(awgconf.ServerPeer{
			ClientName:   name,
			PublicKey:    publicKey,
			PresharedKey: presharedKey,
			AllowedIPs:   address + "/32",
		})
		if err := atomicWrite(confPath, doc.Encode(), 0o600); err != nil {
			os.RemoveAll(clientDir)
			return fmt.Errorf("update server config: %w", err)
		}

		client = &Client{
			Name:         name,
			Address:      address,
			PublicKey:    publicKey,
			PresharedKey: presharedKey,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Remove deletes a client: the peer stanza leaves the server config first,
// then the client directory is removed recursively. The stanza is matched by
// the client's stored public key, never by name, so "laptop" cannot take
// "laptop2" down with it.
func (r *Registry) Remove(name string) (*Client, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	clientDir := config.ClientDir(r.configDir, name)
	if _, err := os.Stat(clientDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, name)
		}
		return nil, err
	}

	var client *Client
	err := r.withLock(func() error {
		publicKey, err := os.ReadFile(filepath.Join(clientDir, "publickey"))
		if err != nil {
			return fmt.Errorf("read stored public key: %w", err)
		}
		key := strings.TrimSpace(string(publicKey))

		confPath := config.ServerConfPath(r.configDir)
		raw, err := os.ReadFile(confPath)
		if err == nil {
			doc := awgconf.Parse(raw)
			if doc.RemovePeerByPublicKey(key) {
				if err := atomicWrite(confPath, doc.Encode(), 0o600); err != nil {
					return fmt.Errorf("update server config: %w", err)
				}
			}
		} else if !os.IsNotExist(err) {
			return err
		}

		if err := os.RemoveAll(clientDir); err != nil {
			return fmt.Errorf("remove client directory: %w", err)
		}

		client = &Client{Name: name, PublicKey: key}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// List enumerates registered clients with their stored address and public
// key. Read-only; clients with missing files are still listed by name.
func (r *Registry) List() ([]Client, error) {
	entries, err := os.ReadDir(config.ClientsDir(r.configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var clients []Client
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		client := Client{Name: name}

		if key, err := os.ReadFile(filepath.Join(config.ClientDir(r.configDir, name), "publickey")); err == nil {
			client.PublicKey = strings.TrimSpace(string(key))
		}
		if raw, err := os.ReadFile(r.ClientConfPath(name)); err == nil {
			doc := awgconf.Parse(raw)
			client.Address = strings.TrimSuffix(doc.Interface().Get("Address"), "/32")
		}

		clients = append(clients, client)
	}

	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

// ClientConfPath returns the path of a client's rendered config file.
func (r *Registry) ClientConfPath(name string) string {
	return filepath.Join(config.ClientDir(r.configDir, name), name+".conf")
}

// ReadClientConf returns the rendered config of a registered client.
func (r *Registry) ReadClientConf(name string) ([]byte, error) {
	data, err := os.ReadFile(r.ClientConfPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, name)
		}
		return nil, err
	}
	return data, nil
}

// serverPublicKey resolves the server's public key: from server.keys when
// present, otherwise derived from the PrivateKey in the server config.
func (r *Registry) serverPublicKey(doc *awgconf.Document) (string, error) {
	keys, err := ReadServerKeys(config.ServerKeysPath(r.configDir))
	if err == nil && keys.PublicKey != "" {
		return keys.PublicKey, nil
	}

	privateKey := doc.Interface().Get("PrivateKey")
	if privateKey == "" {
		return "", fmt.Errorf("cannot find server private key in config")
	}
	publicKey, err := r.keys.DerivePublicKey(privateKey)
	if err != nil {
		return "", fmt.Errorf("derive server public key: %w", err)
	}
	return publicKey, nil
}
