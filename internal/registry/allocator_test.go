// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package registry

import (
	"strings"
	"testing"

	"github.com/sharedco/awgman/internal/awgconf"
)

func confWithPeers(allowedIPs ...string) string {
	var b strings.Builder
	b.WriteString("[Interface]\nAddress = 10.8.0.1/24\nListenPort = 51820\n")
	for _, ips := range allowedIPs {
		b.WriteString("\n[Peer]\nPublicKey = k\nAllowedIPs = " + ips + "\n")
	}
	return b.String()
}

func TestNextClientIP(t *testing.T) {
	tests := []struct {
		name string
		conf string
		want string
	}{
		{"no peers", confWithPeers(), "10.8.0.2"},
		{"one peer", confWithPeers("10.8.0.2/32"), "10.8.0.3"},
		{"sequential peers", confWithPeers("10.8.0.2/32", "10.8.0.3/32"), "10.8.0.4"},
		{"gap is not reused", confWithPeers("10.8.0.2/32", "10.8.0.5/32"), "10.8.0.6"},
		{"unordered peers", confWithPeers("10.8.0.7/32", "10.8.0.3/32"), "10.8.0.8"},
		{"highest below two", confWithPeers("10.8.0.1/32"), "10.8.0.2"},
		{"comma separated list", confWithPeers("10.8.0.4/32, fd00::4/128"), "10.8.0.5"},
		{"foreign subnet ignored", confWithPeers("192.168.1.9/32"), "10.8.0.2"},
		{"non host mask ignored", confWithPeers("10.8.0.0/24"), "10.8.0.2"},
		{"different server subnet", "[Interface]\nAddress = 192.168.100.1/24\n\n[Peer]\nAllowedIPs = 192.168.100.2/32\n", "192.168.100.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := awgconf.Parse([]byte(tt.conf))
			got, err := NextClientIP(doc)
			if err != nil {
				t.Fatalf("NextClientIP() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextClientIPErrors(t *testing.T) {
	tests := []struct {
		name string
		conf string
	}{
		{"no interface section", "[Peer]\nAllowedIPs = 10.8.0.2/32\n"},
		{"missing address", "[Interface]\nListenPort = 51820\n"},
		{"malformed address", "[Interface]\nAddress = not-an-address\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := awgconf.Parse([]byte(tt.conf))
			if _, err := NextClientIP(doc); err == nil {
				t.Error("NextClientIP() succeeded, want error")
			}
		})
	}
}
