// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import "regexp"

// Cleanup passes run until the document stops changing: removing an empty
// formatting element can leave its parent empty in turn.
var cleanupRes = []*regexp.Regexp{
	regexp.MustCompile(`<bold id="[^"]*">\s*</bold>`),
	regexp.MustCompile(`<italic>\s*</italic>`),
	regexp.MustCompile(`<sup>\s*</sup>`),
	regexp.MustCompile(`(?m)^\s*<p id="[^"]*">\s*</p>\n?`),
}

var blankLineRe = regexp.MustCompile(`\n{3,}`)

// Cleanup strips empty inline and paragraph elements left over from
// serialization and collapses runs of blank lines.
func Cleanup(doc string) string {
	for {
		next := doc
		for _, re := range cleanupRes {
			next = re.ReplaceAllString(next, "")
		}
		if next == doc {
			break
		}
		doc = next
	}
	return blankLineRe.ReplaceAllString(doc, "\n\n")
}
