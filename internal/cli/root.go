// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"github.com/sharedco/awgman/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "awgman",
	Short: "awgman - AmneziaWG server manager",
	Long: `awgman manages an AmneziaWG VPN server running in a Docker container.
It generates server and client configuration, manages key material, and keeps
the server's peer list in sync with the per-client directories on disk. The
daemon itself, key CLI and firewall rules live in the container; awgman only
manipulates configuration files and shells out.

The container lifecycle commands (build, start, stop, restart, logs, clean)
run docker compose and expect a compose file for the server container in the
working directory.`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(addClientCmd)
	rootCmd.AddCommand(removeClientCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(entrypointCmd)
}
