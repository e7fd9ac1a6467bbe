// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sharedco/awgman/internal/awgconf"
)

var addressPattern = regexp.MustCompile(`^(\d+\.\d+\.\d+)\.\d+/\d+$`)

// NextClientIP allocates the next free VPN address by scanning the peers
// already present in the server config. Allocation is monotonic: the highest
// assigned host number wins and freed addresses are never reused, so a
// removed client's address cannot be handed to a stranger while old configs
// are still in the wild. The first client gets .2 (.1 is the server).
func NextClientIP(doc *awgconf.Document) (string, error) {
	prefix, err := subnetPrefix(doc)
	if err != nil {
		return "", err
	}

	max := 0
	for _, peer := range doc.Peers() {
		for _, cidr := range strings.Split(peer.Get("AllowedIPs"), ",") {
			n, ok := hostNumber(strings.TrimSpace(cidr), prefix)
			if ok && n > max {
				max = n
			}
		}
	}

	next := max + 1
	if next < 2 {
		next = 2
	}
	return fmt.Sprintf("%s.%d", prefix, next), nil
}

// subnetPrefix derives the first three octets of the VPN subnet from the
// server's Address line, e.g. "10.8.0.1/24" yields "10.8.0".
func subnetPrefix(doc *awgconf.Document) (string, error) {
	iface := doc.Interface()
	if iface == nil {
		return "", fmt.Errorf("cannot parse VPN network from server config: no [Interface] section")
	}

	m := addressPattern.FindStringSubmatch(iface.Get("Address"))
	if m == nil {
		return "", fmt.Errorf("cannot parse VPN network from server config: bad Address %q", iface.Get("Address"))
	}
	return m[1], nil
}

// hostNumber extracts N from "<prefix>.N/32", reporting ok=false for
// addresses outside the VPN subnet or with a different mask.
func hostNumber(cidr, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(cidr, prefix+".")
	if !found {
		return 0, false
	}
	numStr, found := strings.CutSuffix(rest, "/32")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, false
	}
	return n, true
}
