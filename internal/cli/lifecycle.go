// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sharedco/awgman/internal/config"
	"github.com/sharedco/awgman/internal/runtime/docker"
	"github.com/spf13/cobra"
)

func newProvider(cfg *config.Config) *docker.Provider {
	return docker.NewProvider(cfg.ContainerName, cfg.Interface)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the server container image",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return newProvider(cfg).Build(context.Background())
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the server container",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := newProvider(cfg).Up(context.Background()); err != nil {
			return err
		}
		fmt.Println("✓ Server started")
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the server container",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := newProvider(cfg).Down(context.Background()); err != nil {
			return err
		}
		fmt.Println("✓ Server stopped")
		return nil
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the server container",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := newProvider(cfg).Restart(context.Background()); err != nil {
			return err
		}
		fmt.Println("✓ Server restarted")
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show server container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		follow, _ := cmd.Flags().GetBool("follow")
		tail, _ := cmd.Flags().GetInt("tail")

		return newProvider(cfg).Logs(context.Background(), docker.LogOptions{
			Follow: follow,
			Tail:   tail,
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status from inside the container",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		provider := newProvider(cfg)
		ctx := context.Background()

		if !provider.Running(ctx) {
			fmt.Println("Server: not running")
			return nil
		}

		out, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the server container and volumes",
	Long: `Remove the server container and its volumes.

With --purge, also deletes the config directory including all server keys and
client records. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		purge, _ := cmd.Flags().GetBool("purge")

		if err := newProvider(cfg).Clean(context.Background()); err != nil {
			return err
		}

		if purge {
			if err := os.RemoveAll(cfg.ConfigDir); err != nil {
				return fmt.Errorf("remove config directory: %w", err)
			}
			fmt.Printf("✓ Removed %s\n", cfg.ConfigDir)
		}

		fmt.Println("✓ Cleaned up")
		return nil
	},
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().Int("tail", 100, "Number of lines to show from end of logs")

	cleanCmd.Flags().Bool("purge", false, "Also delete the config directory (keys and clients)")
}
