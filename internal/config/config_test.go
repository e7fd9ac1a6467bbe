// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches the working directory for the duration of the test,
// restoring the original directory on cleanup (testing.T.Chdir requires Go
// 1.24; this toolchain is older).
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}

// clearEnv blanks every variable Load reads so host settings cannot leak into
// assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"SERVER_IP", "LISTEN_PORT", "VPN_NETWORK", "DNS",
		"INTERFACE", "EXTERNAL_INTERFACE", "LOG_LEVEL", "AWGMAN_DAEMON",
		"MTU", "PERSISTENT_KEEPALIVE", "CONTAINER_NAME", "AWGMAN_CONFIG_DIR",
		"JC", "JMIN", "JMAX", "S1", "S2", "S3", "S4",
		"H1", "H2", "H3", "H4", "I1", "I2", "I3", "I4", "I5",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg := Load()

	if cfg.ListenPort != 51820 {
		t.Errorf("ListenPort = %d, want 51820", cfg.ListenPort)
	}
	if cfg.VPNNetwork != "10.8.0.0/24" {
		t.Errorf("VPNNetwork = %q, want 10.8.0.0/24", cfg.VPNNetwork)
	}
	if cfg.DNS != "1.1.1.1" {
		t.Errorf("DNS = %q, want 1.1.1.1", cfg.DNS)
	}
	if cfg.Interface != "awg0" {
		t.Errorf("Interface = %q, want awg0", cfg.Interface)
	}
	if cfg.MTU != 1280 {
		t.Errorf("MTU = %d, want 1280", cfg.MTU)
	}
	if cfg.Keepalive != 25 {
		t.Errorf("Keepalive = %d, want 25", cfg.Keepalive)
	}
	if cfg.ContainerName != "amneziawg" {
		t.Errorf("ContainerName = %q, want amneziawg", cfg.ContainerName)
	}
	if cfg.ConfigDir != "config" {
		t.Errorf("ConfigDir = %q, want config", cfg.ConfigDir)
	}
	if len(cfg.DaemonCmd) != 2 || cfg.DaemonCmd[0] != "awg-quick" || cfg.DaemonCmd[1] != "up" {
		t.Errorf("DaemonCmd = %v, want [awg-quick up]", cfg.DaemonCmd)
	}
	if cfg.Obfuscation.Jc != "4" || cfg.Obfuscation.H4 != "4" {
		t.Errorf("Obfuscation = %+v, want defaults", cfg.Obfuscation)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("SERVER_IP", "203.0.113.9")
	t.Setenv("LISTEN_PORT", "443")
	t.Setenv("DNS", "9.9.9.9")
	t.Setenv("MTU", "1420")
	t.Setenv("JC", "7")
	t.Setenv("I1", "<b 0xf6ab3267fa>")

	cfg := Load()

	if cfg.ServerIP != "203.0.113.9" {
		t.Errorf("ServerIP = %q", cfg.ServerIP)
	}
	if cfg.ListenPort != 443 {
		t.Errorf("ListenPort = %d, want 443", cfg.ListenPort)
	}
	if cfg.DNS != "9.9.9.9" {
		t.Errorf("DNS = %q, want 9.9.9.9", cfg.DNS)
	}
	if cfg.MTU != 1420 {
		t.Errorf("MTU = %d, want 1420", cfg.MTU)
	}
	if cfg.Obfuscation.Jc != "7" {
		t.Errorf("Jc = %q, want 7", cfg.Obfuscation.Jc)
	}
	if cfg.Obfuscation.I1 != "<b 0xf6ab3267fa>" {
		t.Errorf("I1 = %q", cfg.Obfuscation.I1)
	}
	if cfg.Obfuscation.Jmin != "50" {
		t.Errorf("Jmin = %q, want default 50", cfg.Obfuscation.Jmin)
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("LISTEN_PORT", "not-a-number")

	if cfg := Load(); cfg.ListenPort != 51820 {
		t.Errorf("ListenPort = %d, want default 51820", cfg.ListenPort)
	}
}

func TestProjectConfigOverridesEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("SERVER_IP", "198.51.100.1")
	t.Setenv("LISTEN_PORT", "443")

	yml := "server_ip: 203.0.113.9\nlisten_port: 51821\ncontainer: vpn-1\nconfig_dir: /srv/awg\n"
	if err := os.WriteFile(filepath.Join(dir, "awgman.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()

	if cfg.ServerIP != "203.0.113.9" {
		t.Errorf("ServerIP = %q, want project value", cfg.ServerIP)
	}
	if cfg.ListenPort != 51821 {
		t.Errorf("ListenPort = %d, want 51821", cfg.ListenPort)
	}
	if cfg.ContainerName != "vpn-1" {
		t.Errorf("ContainerName = %q, want vpn-1", cfg.ContainerName)
	}
	if cfg.ConfigDir != "/srv/awg" {
		t.Errorf("ConfigDir = %q, want /srv/awg", cfg.ConfigDir)
	}
	// Fields absent from the file keep their environment/default values.
	if cfg.DNS != "1.1.1.1" {
		t.Errorf("DNS = %q, want default", cfg.DNS)
	}
}

func TestLoadProjectConfigMissing(t *testing.T) {
	project, err := loadProjectConfig(t.TempDir())
	if err != nil {
		t.Fatalf("loadProjectConfig() error: %v", err)
	}
	if project != nil {
		t.Errorf("loadProjectConfig() = %+v, want nil", project)
	}
}

func TestEndpoint(t *testing.T) {
	cfg := &Config{ServerIP: "203.0.113.9", ListenPort: 51820}
	if got := cfg.Endpoint(); got != "203.0.113.9:51820" {
		t.Errorf("Endpoint() = %q, want 203.0.113.9:51820", got)
	}

	cfg = &Config{ServerIP: "2001:db8::1", ListenPort: 51820}
	if got := cfg.Endpoint(); got != "[2001:db8::1]:51820" {
		t.Errorf("Endpoint() = %q, want bracketed IPv6", got)
	}
}
