// Copyright (c) 2026 Awgman Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package awgconf models AmneziaWG configuration files as ordered documents.
// Parsing is lossless: every input line belongs to exactly one section, so
// serializing an unmodified document reproduces the input byte for byte.
// Mutations work on whole sections, never on raw line offsets.
package awgconf

import (
	"strings"
)

const clientTagPrefix = "# Client:"

// Section is one bracketed block of a config file, e.g. [Interface] or one
// [Peer]. Blank separator lines preceding the header belong to the section,
// which keeps append/remove symmetric.
type Section struct {
	Name  string
	lines []string
}

// Document is an ordered AmneziaWG config: an [Interface] section followed by
// any number of [Peer] sections.
type Document struct {
	sections        []*Section
	trailingNewline bool
}

// Parse builds a Document from raw config text. It never fails; content
// before the first section header is kept in an unnamed leading section.
func Parse(data []byte) *Document {
	text := string(data)
	doc := &Document{trailingNewline: strings.HasSuffix(text, "\n")}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return doc
	}

	current := &Section{}
	var pending []string // blank lines waiting to be attached

	flush := func() {
		if current.Name != "" || len(current.lines) > 0 {
			doc.sections = append(doc.sections, current)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case isHeader(line):
			flush()
			current = &Section{Name: headerName(line)}
			current.lines = append(current.lines, pending...)
			current.lines = append(current.lines, line)
			pending = nil
		case strings.TrimSpace(line) == "":
			pending = append(pending, line)
		default:
			current.lines = append(current.lines, pending...)
			pending = nil
			current.lines = append(current.lines, line)
		}
	}
	current.lines = append(current.lines, pending...)
	flush()

	return doc
}

// Encode serializes the document back to config text.
func (d *Document) Encode() []byte {
	var all []string
	for _, s := range d.sections {
		all = append(all, s.lines...)
	}
	out := strings.Join(all, "\n")
	if d.trailingNewline && out != "" {
		out += "\n"
	}
	return []byte(out)
}

// Interface returns the first [Interface] section, or nil.
func (d *Document) Interface() *Section {
	for _, s := range d.sections {
		if s.Name == "Interface" {
			return s
		}
	}
	return nil
}

// Peers returns all [Peer] sections in document order.
func (d *Document) Peers() []*Section {
	var peers []*Section
	for _, s := range d.sections {
		if s.Name == "Peer" {
			peers = append(peers, s)
		}
	}
	return peers
}

// AppendPeer adds a rendered peer stanza at the end of the document.
func (d *Document) AppendPeer(p ServerPeer) {
	d.sections = append(d.sections, &Section{
		Name:  "Peer",
		lines: p.lines(),
	})
	if len(d.sections) == 1 {
		d.trailingNewline = true
	}
}

// PeerByClient returns the [Peer] section tagged with exactly the given
// client name, or nil. Matching is full-string, so "laptop" never matches a
// section tagged "laptop2".
func (d *Document) PeerByClient(name string) *Section {
	for _, s := range d.Peers() {
		if s.ClientTag() == name {
			return s
		}
	}
	return nil
}

// PeerByPublicKey returns the [Peer] section with a byte-equal PublicKey
// directive, or nil.
func (d *Document) PeerByPublicKey(publicKey string) *Section {
	for _, s := range d.Peers() {
		if s.Get("PublicKey") == publicKey {
			return s
		}
	}
	return nil
}

// RemovePeerByPublicKey removes the peer block with the given public key,
// including its leading blank separator. Returns false when no block matched;
// the document is left untouched in that case.
func (d *Document) RemovePeerByPublicKey(publicKey string) bool {
	for i, s := range d.sections {
		if s.Name == "Peer" && s.Get("PublicKey") == publicKey {
			d.sections = append(d.sections[:i], d.sections[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the value of the first "Key = value" directive in the section,
// or "" when absent. Keys are case-sensitive, matching awg's own parser.
func (s *Section) Get(key string) string {
	if s == nil {
		return ""
	}
	for _, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || isHeader(trimmed) {
			continue
		}
		k, v, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ClientTag returns the client name from the section's "# Client: <name>"
// comment, or "" when the section carries no tag.
func (s *Section) ClientTag() string {
	if s == nil {
		return ""
	}
	for _, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, clientTagPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, clientTagPrefix))
		}
	}
	return ""
}

func isHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

func headerName(line string) string {
	trimmed := strings.TrimSpace(line)
	return strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
}
