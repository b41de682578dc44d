// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// xrefCueRe finds table/figure mentions in plain text: a cue keyword
// followed by a number. Matching runs over the reconstructed full
// paragraph text because the keyword and numeral are frequently split
// across run boundaries by the source formatting.
var xrefCueRe = regexp.MustCompile(`(?i)\b(Table|Figure|Fig\.?)\s+(\d+)`)

// numericSupRe matches superscript content that is purely citation
// numerals and separators.
var numericSupRe = regexp.MustCompile(`^[\d,\s\-\x{2013}]+$`)

var digitsRe = regexp.MustCompile(`\d+`)

// Targets maps table and figure sequence numbers to the element ids
// assigned for this run. A mention whose number has no entry is left as
// plain formatted text.
type Targets struct {
	Tables  map[int]string
	Figures map[int]string
}

// span is one cross-reference mention located in the full paragraph text.
type span struct {
	start, end int
	refType    string
	rid        string
}

// findSpans locates resolvable table/figure mentions in the full text.
func findSpans(full string, targets Targets) []span {
	var spans []span
	for _, m := range xrefCueRe.FindAllStringSubmatchIndex(full, -1) {
		cue := full[m[2]:m[3]]
		num, _ := strconv.Atoi(full[m[4]:m[5]])

		var refType, rid string
		if strings.HasPrefix(strings.ToLower(cue), "t") {
			refType, rid = "table", targets.Tables[num]
		} else {
			refType, rid = "fig", targets.Figures[num]
		}
		if rid == "" {
			continue
		}
		spans = append(spans, span{start: m[0], end: m[1], refType: refType, rid: rid})
	}
	return spans
}

// RenderInline converts one paragraph's run sequence to JATS inline
// markup. Every input character appears exactly once in the output, either
// inside a cross-reference element or formatted per its run attributes.
func RenderInline(runs []types.Run, gen *IDGen, targets Targets) string {
	var full strings.Builder
	for _, r := range runs {
		full.WriteString(r.Text)
	}
	spans := findSpans(full.String(), targets)

	var (
		b        strings.Builder
		pos      int
		spanIdx  int
		active   *span
		spanText strings.Builder
	)

	flushSpan := func() {
		xid := gen.Next("x")
		fmt.Fprintf(&b, `<xref id="%s" rid="%s" ref-type="%s">%s</xref>`,
			xid, active.rid, active.refType, xmlEscape(spanText.String()))
		spanText.Reset()
		active = nil
	}

	for _, run := range runs {
		t := run.Text
		for t != "" {
			if active != nil {
				n := active.end - pos
				if n > len(t) {
					n = len(t)
				}
				spanText.WriteString(t[:n])
				pos += n
				t = t[n:]
				if pos >= active.end {
					flushSpan()
				}
				continue
			}

			if spanIdx < len(spans) && spans[spanIdx].start < pos+len(t) {
				next := spans[spanIdx].start
				if next > pos {
					formatFragment(&b, t[:next-pos], run, gen)
					t = t[next-pos:]
					pos = next
				}
				active = &spans[spanIdx]
				spanIdx++
				continue
			}

			formatFragment(&b, t, run, gen)
			pos += len(t)
			t = ""
		}
	}

	if active != nil {
		flushSpan()
	}

	return b.String()
}

// formatFragment emits one fragment of text outside any cross-reference
// span, formatted per its run attributes.
func formatFragment(b *strings.Builder, text string, run types.Run, gen *IDGen) {
	if text == "" {
		return
	}

	switch {
	case run.Superscript && strings.TrimSpace(text) != "":
		if numericSupRe.MatchString(strings.TrimSpace(text)) {
			writeCitations(b, text, gen)
		} else {
			fmt.Fprintf(b, "<sup>%s</sup>", xmlEscape(text))
		}

	case run.Italic && run.Bold:
		fmt.Fprintf(b, "<bold><italic>%s</italic></bold>", xmlEscape(text))

	case run.Italic:
		fmt.Fprintf(b, "<italic>%s</italic>", xmlEscape(text))

	case run.Bold:
		fmt.Fprintf(b, `<bold id="%s">%s</bold>`, gen.Next("s"), xmlEscape(text))

	default:
		b.WriteString(xmlEscape(text))
	}
}

// writeCitations turns each numeral in a superscript run into a
// bibliographic cross-reference; separator characters between numerals
// are kept verbatim so no input text is lost.
func writeCitations(b *strings.Builder, text string, gen *IDGen) {
	last := 0
	for _, loc := range digitsRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			b.WriteString(xmlEscape(text[last:loc[0]]))
		}
		tok := text[loc[0]:loc[1]]
		numStr := strings.TrimLeft(tok, "0")
		if numStr == "" {
			numStr = tok
		}
		num, _ := strconv.Atoi(numStr)
		fmt.Fprintf(b, `<xref id="%s" rid="%s" ref-type="bibr">%s</xref>`,
			gen.Next("x"), gen.RefID(num), xmlEscape(tok))
		last = loc[1]
	}
	if last < len(text) {
		b.WriteString(xmlEscape(text[last:]))
	}
}
