// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract holds the heuristic entity parsers: author names, byline
// runs, affiliations, and bibliographic reference strings. Every parser is
// a pure function from raw text (or a run sequence) to a best-effort
// record; a field that cannot be extracted stays empty, it never errors.
package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// initialRe matches an initial-like token: 1-3 capitals, optionally dotted
// ("J", "AB.", "MSR").
var initialRe = regexp.MustCompile(`^[A-Z]{1,3}\.?$`)

// surnameConnectors are particles that glue a multi-word surname together
// ("de la Cruz", "van Dijk"). When one appears second-to-last, the surname
// spans the connector and the final token.
var surnameConnectors = map[string]bool{
	"von": true, "van": true, "de": true, "del": true, "der": true,
	"la": true, "le": true, "al": true, "bin": true, "binti": true, "el": true,
}

// ParseAuthorName splits a raw name string into surname and given names.
//
// Rules, in order: single token → surname only; two tokens where one looks
// like an initial → the other token is the surname (handles both
// "Dhyani H" and "H Dhyani"); otherwise the last token is the surname,
// unless a surname connector precedes it, in which case the surname spans
// both ("Maria de Souza" → surname "de Souza").
func ParseAuthorName(raw string) types.Name {
	name := strings.TrimSpace(raw)
	name = strings.TrimRight(name, ".")
	if name == "" {
		return types.Name{}
	}

	parts := strings.Fields(name)
	switch {
	case len(parts) == 1:
		return types.Name{Surname: parts[0]}

	case len(parts) == 2 && initialRe.MatchString(parts[1]) && !initialRe.MatchString(parts[0]):
		return types.Name{Surname: parts[0], Given: strings.TrimRight(parts[1], ".")}

	case len(parts) == 2 && initialRe.MatchString(parts[0]):
		return types.Name{Surname: parts[1], Given: strings.TrimRight(parts[0], ".")}
	}

	if len(parts) >= 3 && surnameConnectors[strings.ToLower(parts[len(parts)-2])] {
		return types.Name{
			Surname: strings.Join(parts[len(parts)-2:], " "),
			Given:   strings.Join(parts[:len(parts)-2], " "),
		}
	}

	return types.Name{
		Surname: parts[len(parts)-1],
		Given:   strings.Join(parts[:len(parts)-1], " "),
	}
}

// affSplitRe splits a superscript affiliation run into candidate labels.
var affSplitRe = regexp.MustCompile(`[,\x{060C}\s]+`)

// ParseAuthorList walks a byline paragraph's runs and produces the ordered
// author list. Plain text accumulates into the current name; superscript
// numeric runs attach affiliation labels to it; a literal "*" marks it
// corresponding; a comma in a non-superscript run flushes the completed
// author and starts the next one.
func ParseAuthorList(p types.Paragraph) []types.Author {
	var (
		authors []types.Author
		curName string
		curAffs []string
		curCorr bool
	)

	flush := func() {
		name := strings.Trim(strings.TrimSpace(curName), ",")
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		parsed := ParseAuthorName(name)
		if parsed.Surname == "" {
			return
		}
		authors = append(authors, types.Author{
			Surname:           parsed.Surname,
			Given:             parsed.Given,
			Prefix:            parsed.Prefix,
			AffiliationLabels: append([]string(nil), curAffs...),
			Corresponding:     curCorr,
		})
	}

	for _, run := range p.Runs {
		t := run.Text
		if t == "" {
			continue
		}
		switch {
		case run.Superscript:
			if strings.Contains(t, "*") {
				curCorr = true
			}
			for _, tok := range affSplitRe.Split(t, -1) {
				tok = strings.TrimSpace(tok)
				if tok != "" && isDigits(tok) {
					curAffs = append(curAffs, tok)
				}
			}
		case strings.TrimSpace(t) == "*":
			curCorr = true
		case strings.Contains(t, ","):
			parts := strings.SplitN(t, ",", 2)
			curName += parts[0]
			flush()
			// Only the left side is trimmed; a trailing space may still
			// separate this fragment from the next run's text.
			curName = strings.TrimLeft(parts[1], " ")
			curAffs = nil
			curCorr = false
		default:
			curName += t
		}
	}

	if strings.TrimSpace(curName) != "" {
		flush()
	}
	return authors
}

// leadingDigitRe extracts a leading numeric label from plain affiliation
// text when no superscript label is present.
var leadingDigitRe = regexp.MustCompile(`^(\d+)\s*(.+)`)

// ParseAffiliation extracts the numeric label and institution text from an
// affiliation paragraph. The label comes from a superscript numeric run,
// then from a leading digit in the plain text; when neither is present the
// returned label is empty and the caller auto-assigns the next one.
func ParseAffiliation(p types.Paragraph) (label, institution string) {
	var parts []string
	for _, run := range p.Runs {
		t := strings.TrimSpace(run.Text)
		if run.Superscript && isDigits(t) {
			label = t
			continue
		}
		parts = append(parts, run.Text)
	}

	institution = strings.TrimSpace(strings.Join(parts, ""))
	if label != "" {
		return label, institution
	}

	plain := strings.TrimSpace(p.Text())
	if m := leadingDigitRe.FindStringSubmatch(plain); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", plain
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
