// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package awgconf

import (
	"fmt"
	"strings"
)

// ObfuscationParams are the AmneziaWG junk-packet and header-mangling knobs.
// Values are carried as verbatim strings so that client configs stay
// byte-identical to the server's; a mismatch fails silently at the protocol
// layer, not here.
type ObfuscationParams struct {
	Jc   string
	Jmin string
	Jmax string
	S1   string
	S2   string
	S3   string
	S4   string
	H1   string
	H2   string
	H3   string
	H4   string
	I1   string
	I2   string
	I3   string
	I4   string
	I5   string
}

// DefaultObfuscation returns the parameter set used when the server config
// does not carry its own values.
func DefaultObfuscation() ObfuscationParams {
	return ObfuscationParams{
		Jc:   "4",
		Jmin: "50",
		Jmax: "1000",
		S1:   "0",
		S2:   "0",
		S3:   "0",
		S4:   "0",
		H1:   "1",
		H2:   "2",
		H3:   "3",
		H4:   "4",
	}
}

// obfuscationKeys lists directives in the order awg emits them. The I-series
// packet signatures are optional and omitted when empty.
func (o *ObfuscationParams) fields() []struct {
	key      string
	value    *string
	optional bool
} {
	return []struct {
		key      string
		value    *string
		optional bool
	}{
		{"Jc", &o.Jc, false},
		{"Jmin", &o.Jmin, false},
		{"Jmax", &o.Jmax, false},
		{"S1", &o.S1, false},
		{"S2", &o.S2, false},
		{"S3", &o.S3, false},
		{"S4", &o.S4, false},
		{"H1", &o.H1, false},
		{"H2", &o.H2, false},
		{"H3", &o.H3, false},
		{"H4", &o.H4, false},
		{"I1", &o.I1, true},
		{"I2", &o.I2, true},
		{"I3", &o.I3, true},
		{"I4", &o.I4, true},
		{"I5", &o.I5, true},
	}
}

func (o ObfuscationParams) render(b *strings.Builder) {
	for _, f := range o.fields() {
		if f.optional && *f.value == "" {
			continue
		}
		fmt.Fprintf(b, "%s = %s\n", f.key, *f.value)
	}
}

// Obfuscation extracts the parameter set from the document's [Interface]
// section. Missing directives fall back to the defaults so that old configs
// keep producing complete client configs.
func (d *Document) Obfuscation() ObfuscationParams {
	params := DefaultObfuscation()
	iface := d.Interface()
	if iface == nil {
		return params
	}
	for _, f := range params.fields() {
		if v := iface.Get(f.key); v != "" {
			*f.value = v
		}
	}
	return params
}

// ClientConfig holds everything needed to render a client's .conf file.
type ClientConfig struct {
	PrivateKey      string
	Address         string // host address, without mask
	DNS             string
	MTU             int
	Obfuscation     ObfuscationParams
	ServerPublicKey string
	PresharedKey    string
	Endpoint        string // host:port
	AllowedIPs      string
	Keepalive       int
}

// Render produces the [Interface]+[Peer] client config text. Pure formatting;
// empty fields propagate into the output unchecked.
func (c ClientConfig) Render() []byte {
	var b strings.Builder
	b.WriteString("[Interface]\n")
	fmt.Fprintf(&b, "PrivateKey = %s\n", c.PrivateKey)
	fmt.Fprintf(&b, "Address = %s/32\n", c.Address)
	fmt.Fprintf(&b, "DNS = %s\n", c.DNS)
	fmt.Fprintf(&b, "MTU = %d\n", c.MTU)
	c.Obfuscation.render(&b)
	b.WriteString("\n[Peer]\n")
	fmt.Fprintf(&b, "PublicKey = %s\n", c.ServerPublicKey)
	fmt.Fprintf(&b, "PresharedKey = %s\n", c.PresharedKey)
	fmt.Fprintf(&b, "Endpoint = %s\n", c.Endpoint)
	fmt.Fprintf(&b, "AllowedIPs = %s\n", c.AllowedIPs)
	fmt.Fprintf(&b, "PersistentKeepalive = %d\n", c.Keepalive)
	return []byte(b.String())
}

// ServerInterface holds the settings for the server's [Interface] section.
type ServerInterface struct {
	Address     string // CIDR, e.g. 10.8.0.1/24
	ListenPort  int
	PrivateKey  string
	Obfuscation ObfuscationParams
}

// Render produces the server [Interface] section text.
func (s ServerInterface) Render() []byte {
	var b strings.Builder
	b.WriteString("[Interface]\n")
	fmt.Fprintf(&b, "Address = %s\n", s.Address)
	fmt.Fprintf(&b, "ListenPort = %d\n", s.ListenPort)
	fmt.Fprintf(&b, "PrivateKey = %s\n", s.PrivateKey)
	s.Obfuscation.render(&b)
	return []byte(b.String())
}

// ServerPeer is the peer stanza appended to the server config for one client.
type ServerPeer struct {
	ClientName   string
	PublicKey    string
	PresharedKey string
	AllowedIPs   string
}

func (p ServerPeer) lines() []string {
	return []string{
		"",
		"[Peer]",
		clientTagPrefix + " " + p.ClientName,
		"PublicKey = " + p.PublicKey,
		"PresharedKey = " + p.PresharedKey,
		"AllowedIPs = " + p.AllowedIPs,
	}
}

// Render produces the stanza as standalone text, used when applying a peer to
// the running interface without a restart.
func (p ServerPeer) Render() []byte {
	return []byte(strings.Join(p.lines(), "\n") + "\n")
}
