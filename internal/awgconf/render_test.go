// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package awgconf

import (
	"strings"
	"testing"
)

func TestClientConfigRender(t *testing.T) {
	conf := ClientConfig{
		PrivateKey:      "Y2xpZW50cHJpdmF0ZWtleWNsaWVudHByaXZhdGVrZXk=",
		Address:         "10.8.0.2",
		DNS:             "1.1.1.1",
		MTU:             1280,
		Obfuscation:     DefaultObfuscation(),
		ServerPublicKey: "c2VydmVycHVibGlja2V5c2VydmVycHVibGlja2V5c2U=",
		PresharedKey:    "cHNrcHNrcHNrcHNrcHNrcHNrcHNrcHNrcHNrcHNrcHM=",
		Endpoint:        "203.0.113.9:51820",
		AllowedIPs:      "0.0.0.0/0, ::/0",
		Keepalive:       25,
	}

	want := `[Interface]
PrivateKey = Y2xpZW50cHJpdmF0ZWtleWNsaWVudHByaXZhdGVrZXk=
Address = 10.8.0.2/32
DNS = 1.1.1.1
MTU = 1280
Jc = 4
Jmin = 50
Jmax = 1000
S1 = 0
S2 = 0
S3 = 0
S4 = 0
H1 = 1
H2 = 2
H3 = 3
H4 = 4

[Peer]
PublicKey = c2VydmVycHVibGlja2V5c2VydmVycHVibGlja2V5c2U=
PresharedKey = cHNrcHNrcHNrcHNrcHNrcHNrcHNrcHNrcHNrcHNrcHM=
Endpoint = 203.0.113.9:51820
AllowedIPs = 0.0.0.0/0, ::/0
PersistentKeepalive = 25
`

	if got := string(conf.Render()); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestClientConfigRenderOptionalSignatures(t *testing.T) {
	obf := DefaultObfuscation()
	obf.I1 = "<b 0xf6ab3267fa>"
	obf.I3 = "<r 16>"

	conf := ClientConfig{Obfuscation: obf}
	out := string(conf.Render())

	if !strings.Contains(out, "I1 = <b 0xf6ab3267fa>\n") {
		t.Error("I1 missing from output")
	}
	if !strings.Contains(out, "I3 = <r 16>\n") {
		t.Error("I3 missing from output")
	}
	for _, absent := range []string{"I2", "I4", "I5"} {
		if strings.Contains(out, absent+" =") {
			t.Errorf("%s emitted despite being empty", absent)
		}
	}
}

func TestServerInterfaceRender(t *testing.T) {
	iface := ServerInterface{
		Address:     "10.8.0.1/24",
		ListenPort:  51820,
		PrivateKey:  "c2VydmVycHJpdmF0ZWtleXNlcnZlcnByaXZhdGVrZXk=",
		Obfuscation: DefaultObfuscation(),
	}

	want := `[Interface]
Address = 10.8.0.1/24
ListenPort = 51820
PrivateKey = c2VydmVycHJpdmF0ZWtleXNlcnZlcnByaXZhdGVrZXk=
Jc = 4
Jmin = 50
Jmax = 1000
S1 = 0
S2 = 0
S3 = 0
S4 = 0
H1 = 1
H2 = 2
H3 = 3
H4 = 4
`

	if got := string(iface.Render()); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestServerPeerRender(t *testing.T) {
	peer := ServerPeer{
		ClientName:   "phone",
		PublicKey:    "cGhvbmVwdWJsaWNrZXlwaG9uZXB1YmxpY2tleXBob24=",
		PresharedKey: "cGhvbmVwc2twaG9uZXBza3Bob25lcHNrcGhvbmVwc2s=",
		AllowedIPs:   "10.8.0.4/32",
	}

	want := `
[Peer]
# Client: phone
PublicKey = cGhvbmVwdWJsaWNrZXlwaG9uZXB1YmxpY2tleXBob24=
PresharedKey = cGhvbmVwc2twaG9uZXBza3Bob25lcHNrcGhvbmVwc2s=
AllowedIPs = 10.8.0.4/32
`

	if got := string(peer.Render()); got != want {
		t.Errorf("Render() =\n%q\nwant:\n%q", got, want)
	}
}

// Non-default obfuscation values in the server config must reach the client
// config byte for byte; a drifted value breaks the handshake silently.
func TestClientObfuscationMatchesServer(t *testing.T) {
	serverConf := `[Interface]
Address = 10.8.0.1/24
ListenPort = 51820
PrivateKey = c2VydmVycHJpdmF0ZWtleXNlcnZlcnByaXZhdGVrZXk=
Jc = 7
Jmin = 40
Jmax = 70
S1 = 15
S2 = 68
S3 = 0
S4 = 0
H1 = 1234567891
H2 = 1234567892
H3 = 1234567893
H4 = 1234567894
I1 = <b 0xf6ab3267fa>
`
	doc := Parse([]byte(serverConf))
	client := ClientConfig{Obfuscation: doc.Obfuscation()}
	out := string(client.Render())

	for _, line := range strings.Split(serverConf, "\n") {
		key, _, ok := strings.Cut(line, " = ")
		switch key {
		case "Address", "ListenPort", "PrivateKey", "[Interface]", "":
			continue
		}
		if !ok {
			continue
		}
		if !strings.Contains(out, line+"\n") {
			t.Errorf("client config missing verbatim server line %q", line)
		}
	}
}
