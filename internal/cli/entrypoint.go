// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"os"

	"github.com/sharedco/awgman/internal/bootstrap"
	"github.com/sharedco/awgman/internal/config"
	"github.com/sharedco/awgman/internal/wireguard"
	"github.com/spf13/cobra"
)

var entrypointCmd = &cobra.Command{
	Use:    "entrypoint",
	Short:  "Initialize server state and exec the daemon (container use)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
			return err
		}

		// Only returns on error; on success the daemon replaces this process.
		return bootstrap.Run(cfg, wireguard.Generator{})
	},
}
