// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package docker shells out to the docker CLI for container lifecycle and to
// the awg tool inside the container for live peer changes. Lifecycle commands
// run docker compose and rely on a compose file in the working directory. The
// config on disk is the source of truth; everything here is best effort on
// top of it.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type Provider struct {
	container string // container name running the AmneziaWG daemon
	iface     string // interface name from the environment, e.g. "awg0"
}

func NewProvider(container, iface string) *Provider {
	return &Provider{container: container, iface: iface}
}

// compose runs a docker compose subcommand attached to the operator's
// terminal.
func (p *Provider) compose(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "docker", append([]string{"compose"}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker compose %s: %w", args[0], err)
	}
	return nil
}

func (p *Provider) Build(ctx context.Context) error {
	return p.compose(ctx, "build")
}

func (p *Provider) Up(ctx context.Context) error {
	return p.compose(ctx, "up", "-d")
}

func (p *Provider) Down(ctx context.Context) error {
	return p.compose(ctx, "down")
}

func (p *Provider) Restart(ctx context.Context) error {
	return p.compose(ctx, "restart")
}

func (p *Provider) Clean(ctx context.Context) error {
	return p.compose(ctx, "down", "-v", "--remove-orphans")
}

type LogOptions struct {
	Follow bool
	Tail   int
}

func (p *Provider) Logs(ctx context.Context, opts LogOptions) error {
	args := []string{"logs"}
	if opts.Follow {
		args = append(args, "--follow")
	}
	if opts.Tail > 0 {
		args = append(args, "--tail", strconv.Itoa(opts.Tail))
	}
	return p.compose(ctx, args...)
}

// Status returns the daemon's view of the interface via awg show.
func (p *Provider) Status(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "docker", "exec", p.container, "awg", "show")

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("awg show: %w", err)
	}
	return out.String(), nil
}

// ApplyPeer feeds a rendered peer stanza to the running interface so a new
// client connects without a daemon restart.
func (p *Provider) ApplyPeer(ctx context.Context, stanza []byte) error {
	iface := p.activeInterface(ctx)

	cmd := exec.CommandContext(ctx, "docker", "exec", "-i", p.container,
		"awg", "addconf", iface, "/dev/stdin")
	cmd.Stdin = bytes.NewReader(stanza)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("awg addconf %s: %w", iface, err)
	}
	return nil
}

// RemovePeer drops a peer from the running interface by public key.
func (p *Provider) RemovePeer(ctx context.Context, publicKey string) error {
	iface := p.activeInterface(ctx)

	cmd := exec.CommandContext(ctx, "docker", "exec", p.container,
		"awg", "set", iface, "peer", publicKey, "remove")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("awg set %s peer remove: %w", iface, err)
	}
	return nil
}

// activeInterface probes which interface the daemon actually brought up.
// awg-quick names the interface after the config file, so a server started
// from server.conf runs as "server" regardless of the INTERFACE setting.
func (p *Provider) activeInterface(ctx context.Context) string {
	for _, candidate := range []string{p.iface, "server"} {
		if candidate == "" {
			continue
		}
		check := exec.CommandContext(ctx, "docker", "exec", p.container,
			"ip", "link", "show", candidate)
		if check.Run() == nil {
			return candidate
		}
	}
	return "server"
}

// Running reports whether the daemon container is up.
func (p *Provider) Running(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "inspect",
		"--format", "{{.State.Running}}", p.container)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return false
	}
	return strings.TrimSpace(out.String()) == "true"
}
