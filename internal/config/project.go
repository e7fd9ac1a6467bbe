// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the optional awgman.yml in the working directory. Set
// fields override the environment, which keeps per-deployment settings in the
// repo that holds the compose file instead of in shell profiles.
type ProjectConfig struct {
	ServerIP      string `yaml:"server_ip"`
	ListenPort    int    `yaml:"listen_port"`
	VPNNetwork    string `yaml:"vpn_network"`
	DNS           string `yaml:"dns"`
	Interface     string `yaml:"interface"`
	ContainerName string `yaml:"container"`
	ConfigDir     string `yaml:"config_dir"`
}

// loadProjectConfig loads awgman.yml from the given directory.
// Returns nil, nil if no config exists.
func loadProjectConfig(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, "awgman.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var project ProjectConfig
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (p *ProjectConfig) apply(cfg *Config) {
	if p.ServerIP != "" {
		cfg.ServerIP = p.ServerIP
	}
	if p.ListenPort != 0 {
		cfg.ListenPort = p.ListenPort
	}
	if p.VPNNetwork != "" {
		cfg.VPNNetwork = p.VPNNetwork
	}
	if p.DNS != "" {
		cfg.DNS = p.DNS
	}
	if p.Interface != "" {
		cfg.Interface = p.Interface
	}
	if p.ContainerName != "" {
		cfg.ContainerName = p.ContainerName
	}
	if p.ConfigDir != "" {
		cfg.ConfigDir = p.ConfigDir
	}
}
