// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sharedco/awgman/internal/awgconf"
	"github.com/sharedco/awgman/internal/config"
	"github.com/sharedco/awgman/internal/qr"
	"github.com/sharedco/awgman/internal/registry"
	"github.com/sharedco/awgman/internal/wireguard"
	"github.com/spf13/cobra"
)

func newRegistry(cfg *config.Config) *registry.Registry {
	return registry.New(cfg.ConfigDir, wireguard.Generator{})
}

func clientSettings(cfg *config.Config) registry.Settings {
	return registry.Settings{
		Endpoint:   cfg.Endpoint(),
		DNS:        cfg.DNS,
		MTU:        cfg.MTU,
		Keepalive:  cfg.Keepalive,
		AllowedIPs: "0.0.0.0/0, ::/0",
	}
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List registered clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		format, _ := cmd.Flags().GetString("format")

		clients, err := newRegistry(cfg).List()
		if err != nil {
			return err
		}

		if len(clients) == 0 && format != "json" {
			fmt.Println("No clients registered")
			return nil
		}

		switch format {
		case "json":
			return clientsJSON(clients)
		case "quiet":
			for _, c := range clients {
				fmt.Println(c.Name)
			}
			return nil
		default:
			return clientsTable(clients)
		}
	},
}

var addClientCmd = &cobra.Command{
	Use:   "add-client <name>",
	Short: "Register a new client and generate its config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg := config.Load()
		reg := newRegistry(cfg)

		client, err := reg.Add(name, clientSettings(cfg))
		if err != nil {
			return err
		}

		// Apply to the running interface so the client connects without a
		// restart. The stanza is already in the config; failure here only
		// delays the peer until the next daemon restart.
		ctx := context.Background()
		provider := newProvider(cfg)
		if provider.Running(ctx) {
			stanza := awgconf.ServerPeer{
				ClientName:   client.Name,
				PublicKey:    client.PublicKey,
				PresharedKey: client.PresharedKey,
				AllowedIPs:   client.Address + "/32",
			}
			if err := provider.ApplyPeer(ctx, stanza.Render()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: live apply failed, peer active after restart: %v\n", err)
			}
		}

		fmt.Printf("✓ Client %q created\n", client.Name)
		fmt.Printf("  Config: %s\n", reg.ClientConfPath(client.Name))
		fmt.Printf("  IP: %s\n", client.Address)
		return nil
	},
}

var removeClientCmd = &cobra.Command{
	Use:   "remove-client <name>",
	Short: "Remove a client and its peer entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg := config.Load()

		client, err := newRegistry(cfg).Remove(name)
		if err != nil {
			return err
		}

		ctx := context.Background()
		provider := newProvider(cfg)
		if provider.Running(ctx) && client.PublicKey != "" {
			if err := provider.RemovePeer(ctx, client.PublicKey); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: live removal failed, peer gone after restart: %v\n", err)
			}
		}

		fmt.Printf("✓ Client %q removed\n", client.Name)
		return nil
	},
}

var qrCmd = &cobra.Command{
	Use:   "qr <name>",
	Short: "Export a client config as a QR code image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg := config.Load()
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = name + ".png"
		}

		conf, err := newRegistry(cfg).ReadClientConf(name)
		if err != nil {
			return err
		}

		if err := qr.WritePNG(conf, output); err != nil {
			return err
		}

		fmt.Printf("✓ QR code written to %s\n", output)
		return nil
	},
}

func clientsTable(clients []registry.Client) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tIP\tPUBLIC KEY\t\n")
	fmt.Fprintf(w, "----\t--\t----------\t\n")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", c.Name, c.Address, c.PublicKey)
	}
	return w.Flush()
}

func clientsJSON(clients []registry.Client) error {
	output := make([]map[string]string, 0, len(clients))
	for _, c := range clients {
		output = append(output, map[string]string{
			"name":       c.Name,
			"ip":         c.Address,
			"public_key": c.PublicKey,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func init() {
	clientsCmd.Flags().String("format", "table", "Output format: table, json, quiet")
	qrCmd.Flags().StringP("output", "o", "", "Output file (default <name>.png)")
}
