// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package config holds the runtime configuration, loaded from environment
// variables with an optional awgman.yml project file on top.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/sharedco/awgman/internal/awgconf"
)

// Config holds the server and client-generation settings. The same struct is
// used on the host (managing the container) and inside the container (as the
// entrypoint).
type Config struct {
	// Server settings
	ServerIP   string // public endpoint address clients connect to
	ListenPort int
	VPNNetwork string // CIDR of the VPN subnet, e.g. "10.8.0.0/24"
	DNS        string

	// Daemon settings
	Interface         string // AmneziaWG interface name
	ExternalInterface string // NAT egress interface inside the container
	LogLevel          string
	DaemonCmd         []string // handed the config path as final argument

	// Client defaults
	MTU       int
	Keepalive int

	Obfuscation awgconf.ObfuscationParams

	// Host-side settings
	ContainerName string
	ConfigDir     string
}

// Load creates a Config from environment variables with sensible defaults,
// then applies overrides from awgman.yml when present.
func Load() *Config {
	cfg := &Config{
		ServerIP:          getEnv("SERVER_IP", ""),
		ListenPort:        getInt("LISTEN_PORT", 51820),
		VPNNetwork:        getEnv("VPN_NETWORK", "10.8.0.0/24"),
		DNS:               getEnv("DNS", "1.1.1.1"),
		Interface:         getEnv("INTERFACE", "awg0"),
		ExternalInterface: getEnv("EXTERNAL_INTERFACE", "eth0"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DaemonCmd:         strings.Fields(getEnv("AWGMAN_DAEMON", "awg-quick up")),
		MTU:               getInt("MTU", 1280),
		Keepalive:         getInt("PERSISTENT_KEEPALIVE", 25),
		Obfuscation:       loadObfuscation(),
		ContainerName:     getEnv("CONTAINER_NAME", "amneziawg"),
		ConfigDir:         getEnv("AWGMAN_CONFIG_DIR", "config"),
	}

	project, err := loadProjectConfig(".")
	if err == nil && project != nil {
		project.apply(cfg)
	}

	return cfg
}

// Endpoint returns the host:port clients dial.
func (c *Config) Endpoint() string {
	return net.JoinHostPort(c.ServerIP, strconv.Itoa(c.ListenPort))
}

func loadObfuscation() awgconf.ObfuscationParams {
	o := awgconf.DefaultObfuscation()
	o.Jc = getEnv("JC", o.Jc)
	o.Jmin = getEnv("JMIN", o.Jmin)
	o.Jmax = getEnv("JMAX", o.Jmax)
	o.S1 = getEnv("S1", o.S1)
	o.S2 = getEnv("S2", o.S2)
	o.S3 = getEnv("S3", o.S3)
	o.S4 = getEnv("S4", o.S4)
	o.H1 = getEnv("H1", o.H1)
	o.H2 = getEnv("H2", o.H2)
	o.H3 = getEnv("H3", o.H3)
	o.H4 = getEnv("H4", o.H4)
	o.I1 = getEnv("I1", o.I1)
	o.I2 = getEnv("I2", o.I2)
	o.I3 = getEnv("I3", o.I3)
	o.I4 = getEnv("I4", o.I4)
	o.I5 = getEnv("I5", o.I5)
	return o
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt retrieves an integer environment variable or returns a default value.
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
