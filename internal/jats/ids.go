// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jats renders the document model into JATS 1.2 XML: front matter,
// body with floating tables and figures, back matter, and the inline
// formatting of styled runs with typed cross-references.
package jats

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// IDGen allocates process-unique element identifiers for one conversion
// run. Identifiers combine a per-document prefix (hash of the title), a
// monotonically increasing counter, and a content-hash suffix. Uniqueness
// holds within a run, not across runs; every conversion starts a fresh
// generator so concurrent runs cannot collide.
type IDGen struct {
	prefix string
	ctr    int
}

// NewIDGen creates a generator whose prefix is derived from the article
// title.
func NewIDGen(title string) *IDGen {
	if title == "" {
		title = "article"
	}
	sum := md5.Sum([]byte(title))
	return &IDGen{prefix: fmt.Sprintf("%x", sum)[:8]}
}

// Prefix returns the per-document identifier prefix.
func (g *IDGen) Prefix() string { return g.prefix }

// Next returns the next identifier for an element of the given label
// (e.g. "p", "sec", "table-wrap").
func (g *IDGen) Next(label string) string {
	g.ctr++
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d", label, g.ctr)))
	suffix := fmt.Sprintf("%x", sum)[:12]
	return fmt.Sprintf("%s-%s-%d-%s", label, g.prefix, g.ctr, suffix)
}

// RefID returns the bibliography entry id for a citation sequence number.
// Citation xrefs compute their rid from this scheme, so a citation to a
// missing entry yields a dangling rid rather than an error.
func (g *IDGen) RefID(num int) string {
	return fmt.Sprintf("%s-B%d", g.prefix, num)
}

// xmlEscaper escapes the five XML metacharacters.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
