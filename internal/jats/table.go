// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/docx2jats/pkg/types"
)

var (
	tableLabelRe = regexp.MustCompile(`(?i)^Table\s+\d+\s*[:.\-]?\s*`)
	figLabelRe   = regexp.MustCompile(`(?i)^Fig(?:ure|\.)?\s+\d+\s*[:.\-]?\s*`)
)

// renderTable emits one table-wrap block. The first row becomes the
// header; remaining rows the body. Column widths, when known, are emitted
// as a colgroup of percentages; otherwise columns split the width evenly.
func renderTable(t *types.Table, gen *IDGen, id string) []string {
	var L []string
	L = append(L, fmt.Sprintf(`    <table-wrap id="%s" position="float">`, id))
	L = append(L, fmt.Sprintf(`      <label>Table %d</label>`, t.Num))

	caption := strings.TrimSpace(tableLabelRe.ReplaceAllString(t.Caption, ""))
	if caption != "" {
		L = append(L,
			fmt.Sprintf(`      <caption id="%s">`, gen.Next("caption")),
			fmt.Sprintf(`        <title id="%s">%s</title>`, gen.Next("title"), xmlEscape(caption)),
			`      </caption>`,
		)
	}

	if len(t.Rows) == 0 {
		L = append(L, `    </table-wrap>`)
		return L
	}

	L = append(L, fmt.Sprintf(`      <table id="%s" frame="hsides" rules="groups">`, gen.Next("table")))

	ncols := len(t.Rows[0])
	widths := t.ColWidths
	if len(widths) != ncols {
		widths = nil
	}
	L = append(L, `        <colgroup>`)
	for c := 0; c < ncols; c++ {
		pct := 100.0 / float64(ncols)
		if widths != nil {
			pct = widths[c]
		}
		L = append(L, fmt.Sprintf(`          <col width="%.2f%%"/>`, pct))
	}
	L = append(L, `        </colgroup>`)

	L = append(L, `        <thead>`)
	L = append(L, renderRow(t.Rows[0], gen, true)...)
	L = append(L, `        </thead>`)

	if len(t.Rows) > 1 {
		L = append(L, `        <tbody>`)
		for _, row := range t.Rows[1:] {
			L = append(L, renderRow(row, gen, false)...)
		}
		L = append(L, `        </tbody>`)
	}

	L = append(L, `      </table>`, `    </table-wrap>`)
	return L
}

func renderRow(row []types.TableCell, gen *IDGen, header bool) []string {
	tag := "td"
	if header {
		tag = "th"
	}
	L := []string{`          <tr>`}
	for _, cell := range row {
		span := ""
		if cell.ColSpan > 1 {
			span = fmt.Sprintf(` colspan="%d"`, cell.ColSpan)
		}
		text := xmlEscape(cell.Text)
		if header {
			text = fmt.Sprintf(`<bold id="%s">%s</bold>`, gen.Next("s"), text)
		}
		L = append(L, fmt.Sprintf(`            <%s%s><p id="%s">%s</p></%s>`,
			tag, span, gen.Next("p"), text, tag))
	}
	L = append(L, `          </tr>`)
	return L
}

// renderFigure emits one fig block. Embedded graphics are not extracted;
// a placeholder href records where the binary belongs.
func renderFigure(f *types.Figure, gen *IDGen, id string) []string {
	var L []string
	L = append(L, fmt.Sprintf(`    <fig id="%s" position="float">`, id))
	L = append(L, fmt.Sprintf(`      <label>Figure %d</label>`, f.Num))

	caption := strings.TrimSpace(figLabelRe.ReplaceAllString(f.Caption, ""))
	if caption != "" {
		L = append(L,
			fmt.Sprintf(`      <caption id="%s">`, gen.Next("caption")),
			fmt.Sprintf(`        <title id="%s">%s</title>`, gen.Next("title"), xmlEscape(caption)),
			`      </caption>`,
		)
	}

	if f.HasImage {
		L = append(L, fmt.Sprintf(`      <graphic xlink:href="figure-%d"/>`, f.Num))
	}

	L = append(L, `    </fig>`)
	return L
}
