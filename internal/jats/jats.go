// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// Render serializes the document model to a JATS 1.2 document in the
// fixed region order front → body → back → floats-group. Identifier state
// is scoped to this call; tables and figures are emitted exactly once,
// inline at their first in-text mention or in the trailing floats group
// when never mentioned. The empty-element cleanup pass runs before
// returning.
func Render(art *types.Article, jm types.JournalMeta) string {
	jm.ApplyDefaults()

	gen := NewIDGen(art.Title)

	// Floating-element ids are allocated up front so in-text mentions can
	// reference them before the blocks themselves are emitted.
	targets := Targets{
		Tables:  make(map[int]string),
		Figures: make(map[int]string),
	}
	for i := range art.Tables {
		art.Tables[i].Placed = false
		targets.Tables[art.Tables[i].Num] = gen.Next("table-wrap")
	}
	for i := range art.Figures {
		art.Figures[i].Placed = false
		targets.Figures[art.Figures[i].Num] = gen.Next("fig")
	}

	var L []string
	L = append(L,
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<!DOCTYPE article PUBLIC "-//NLM//DTD JATS (Z39.96) Journal Publishing DTD v1.2 20190208//EN"`,
		`  "JATS-journalpublishing1-2.dtd">`,
		`<article xmlns:xlink="http://www.w3.org/1999/xlink"`,
		fmt.Sprintf(`         article-type="%s"`, xmlEscape(jm.ArticleType)),
		`         xml:lang="en">`,
		``,
	)

	L = appendFront(L, art, jm, gen)
	L = appendBody(L, art, gen, targets)
	L = appendBack(L, art, gen)
	L = appendFloats(L, art, gen, targets)

	L = append(L, `</article>`)

	return Cleanup(strings.Join(L, "\n"))
}

func banner(title string) []string {
	return []string{
		`  <!-- ============================================================`,
		`       ` + title,
		`       ============================================================ -->`,
	}
}

func appendFront(L []string, art *types.Article, jm types.JournalMeta, gen *IDGen) []string {
	L = append(L, banner("FRONT MATTER")...)
	L = append(L, `  <front>`)

	// journal-meta
	L = append(L,
		fmt.Sprintf(`    <journal-meta id="%s">`, gen.Next("journal-meta")),
		fmt.Sprintf(`      <journal-id journal-id-type="nlm-ta">%s</journal-id>`, xmlEscape(jm.Publisher)),
		fmt.Sprintf(`      <journal-id journal-id-type="publisher-id">%s</journal-id>`, xmlEscape(jm.Publisher)),
		`      <journal-title-group>`,
		fmt.Sprintf(`        <journal-title>%s</journal-title>`, xmlEscape(jm.Name)),
	)
	if jm.Abbrev != "" {
		L = append(L, fmt.Sprintf(`        <abbrev-journal-title>%s</abbrev-journal-title>`, xmlEscape(jm.Abbrev)))
	}
	L = append(L, `      </journal-title-group>`)
	if jm.ISSNPrint != "" {
		L = append(L, fmt.Sprintf(`      <issn publication-format="print">%s</issn>`, xmlEscape(strings.TrimSpace(jm.ISSNPrint))))
	}
	if jm.ISSNElec != "" {
		L = append(L, fmt.Sprintf(`      <issn publication-format="electronic">%s</issn>`, xmlEscape(strings.TrimSpace(jm.ISSNElec))))
	}
	if jm.JournalURL != "" {
		L = append(L, fmt.Sprintf(`      <self-uri xlink:href="%s"/>`, xmlEscape(jm.JournalURL)))
	}
	L = append(L, `    </journal-meta>`, ``)

	// article-meta
	L = append(L, fmt.Sprintf(`    <article-meta id="%s">`, gen.Next("article-meta")))
	if jm.DOI != "" {
		L = append(L, fmt.Sprintf(`      <article-id pub-id-type="doi">%s</article-id>`, xmlEscape(jm.DOI)))
	}
	L = append(L,
		`      <article-categories>`,
		`        <subj-group subj-group-type="heading">`,
		fmt.Sprintf(`          <subject>%s</subject>`, xmlEscape(jm.ArticleTypeLabel())),
		`        </subj-group>`,
		`      </article-categories>`,
		``,
		`      <title-group>`,
		fmt.Sprintf(`        <article-title>%s</article-title>`, xmlEscape(art.Title)),
		`      </title-group>`,
		``,
		`      <contrib-group>`,
	)

	for _, a := range art.Authors {
		corr := ""
		if a.Corresponding {
			corr = ` corresp="yes"`
		}
		L = append(L, fmt.Sprintf(`        <contrib contrib-type="author"%s>`, corr))
		if a.ORCID != "" {
			L = append(L, fmt.Sprintf(`          <contrib-id contrib-id-type="orcid">%s</contrib-id>`, xmlEscape(a.ORCID)))
		}
		L = append(L, `          <name name-style="western">`)
		L = append(L, fmt.Sprintf(`            <surname>%s</surname>`, xmlEscape(a.Surname)))
		if a.Given != "" {
			L = append(L, fmt.Sprintf(`            <given-names>%s</given-names>`, xmlEscape(a.Given)))
		}
		L = append(L, `          </name>`)
		// Affiliation labels pass through even when no matching <aff>
		// exists; a dangling rid is tolerated.
		for _, label := range a.AffiliationLabels {
			L = append(L, fmt.Sprintf(`          <xref id="%s" rid="aff%s" ref-type="aff"><sup>%s</sup></xref>`,
				gen.Next("x"), xmlEscape(label), xmlEscape(label)))
		}
		if a.Corresponding {
			L = append(L, fmt.Sprintf(`          <xref id="%s" rid="cor1" ref-type="corresp">*</xref>`, gen.Next("x")))
		}
		L = append(L, `        </contrib>`)
	}

	for _, aff := range art.Affiliations {
		L = append(L, appendAff(aff)...)
	}

	L = append(L, `      </contrib-group>`, ``)

	// author-notes
	L = append(L, `      <author-notes>`)
	for _, a := range art.Authors {
		if a.Corresponding {
			L = append(L,
				`        <corresp id="cor1">`,
				fmt.Sprintf(`          <bold>Corresponding Author:</bold> %s %s`, xmlEscape(a.Given), xmlEscape(a.Surname)),
				`        </corresp>`,
			)
			break
		}
	}
	L = append(L,
		`        <fn fn-type="conflict">`,
		`          <p>None declared.</p>`,
		`        </fn>`,
		`        <fn fn-type="financial-disclosure">`,
		`          <p>None.</p>`,
		`        </fn>`,
		`      </author-notes>`,
		``,
	)

	// pub-date and issue block
	L = append(L,
		`      <pub-date date-type="pub" publication-format="print">`,
		fmt.Sprintf(`        <day>%s</day>`, xmlEscape(jm.Day)),
		fmt.Sprintf(`        <month>%s</month>`, xmlEscape(jm.Month)),
		fmt.Sprintf(`        <year>%s</year>`, xmlEscape(jm.Year)),
		`      </pub-date>`,
	)
	for _, f := range []struct{ tag, val string }{
		{"volume", jm.Volume}, {"issue", jm.Issue}, {"fpage", jm.FPage}, {"lpage", jm.LPage},
	} {
		if f.val != "" {
			L = append(L, fmt.Sprintf(`      <%s>%s</%s>`, f.tag, xmlEscape(f.val), f.tag))
		}
	}

	// history
	if art.ReceivedDate != "" || art.AcceptedDate != "" {
		L = append(L, `      <history>`)
		for _, h := range []struct{ dtype, raw string }{
			{"received", art.ReceivedDate}, {"accepted", art.AcceptedDate},
		} {
			if h.raw == "" {
				continue
			}
			day, month, year := splitDate(h.raw)
			L = append(L,
				fmt.Sprintf(`        <date date-type="%s">`, h.dtype),
				fmt.Sprintf(`          <day>%s</day>`, xmlEscape(day)),
				fmt.Sprintf(`          <month>%s</month>`, xmlEscape(month)),
				fmt.Sprintf(`          <year>%s</year>`, xmlEscape(year)),
				`        </date>`,
			)
		}
		L = append(L, `      </history>`)
	}

	// permissions
	licenseURL := jm.LicenseURL()
	L = append(L,
		`      <permissions>`,
		fmt.Sprintf(`        <copyright-statement>© %s The Author(s)</copyright-statement>`, xmlEscape(jm.Year)),
		fmt.Sprintf(`        <copyright-year>%s</copyright-year>`, xmlEscape(jm.Year)),
		fmt.Sprintf(`        <license license-type="open-access" xlink:href="%s">`, xmlEscape(licenseURL)),
		`          <license-p>This is an Open Access article distributed under the terms of the`,
		`          Creative Commons License`,
		fmt.Sprintf(`          (<ext-link ext-link-type="uri" xlink:href="%s">%s</ext-link>)`, xmlEscape(licenseURL), xmlEscape(licenseURL)),
		`          which permits unrestricted use, distribution, and reproduction`,
		`          in any medium, provided the original work is properly cited.</license-p>`,
		`        </license>`,
		`      </permissions>`,
		``,
	)

	// abstract
	if len(art.Abstract) > 0 {
		L = append(L, fmt.Sprintf(`      <abstract id="%s">`, gen.Next("abstract")))
		L = append(L, `        <title>Abstract</title>`)
		for _, entry := range art.Abstract {
			text := strings.TrimSpace(entry.Text)
			if entry.Label == "" {
				L = append(L, fmt.Sprintf(`        <p id="%s">%s</p>`, gen.Next("p"), xmlEscape(text)))
				continue
			}
			L = append(L,
				fmt.Sprintf(`        <sec id="%s">`, gen.Next("sec")),
				fmt.Sprintf(`          <title id="%s">%s</title>`, gen.Next("title"), xmlEscape(entry.Label)),
				fmt.Sprintf(`          <p id="%s">%s</p>`, gen.Next("p"), xmlEscape(text)),
				`        </sec>`,
			)
		}
		L = append(L, `      </abstract>`)
	}

	// keywords
	if len(art.Keywords) > 0 {
		L = append(L,
			fmt.Sprintf(`      <kwd-group id="%s" kwd-group-type="author-generated">`, gen.Next("kwd-group")),
			`        <title>Keywords</title>`,
		)
		for _, kw := range art.Keywords {
			L = append(L, fmt.Sprintf(`        <kwd>%s</kwd>`, xmlEscape(kw)))
		}
		L = append(L, `      </kwd-group>`)
	}

	L = append(L, ``, `    </article-meta>`, `  </front>`, ``)
	return L
}

// appendAff renders one affiliation, splitting the institution text on
// commas into dept / institution / address / country parts when enough
// segments are present.
func appendAff(aff types.Affiliation) []string {
	var L []string
	L = append(L, fmt.Sprintf(`        <aff id="aff%s">`, xmlEscape(aff.Label)))
	L = append(L, fmt.Sprintf(`          <label>%s</label>`, xmlEscape(aff.Label)))

	parts := strings.Split(aff.Institution, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 {
		L = append(L, fmt.Sprintf(`          <institution content-type="dept">%s</institution>`, xmlEscape(parts[0])))
		var mid string
		if len(parts) > 3 {
			mid = strings.Join(parts[1:len(parts)-2], ", ")
		} else {
			mid = parts[1]
		}
		if mid != "" && len(parts) > 2 {
			L = append(L, fmt.Sprintf(`          <institution>%s</institution>`, xmlEscape(mid)))
		}
		if len(parts) >= 3 {
			L = append(L, fmt.Sprintf(`          <addr-line>%s</addr-line>`, xmlEscape(parts[len(parts)-2])))
		}
		L = append(L, fmt.Sprintf(`          <country>%s</country>`, xmlEscape(parts[len(parts)-1])))
	} else {
		L = append(L, fmt.Sprintf(`          <institution>%s</institution>`, xmlEscape(aff.Institution)))
	}

	L = append(L, `        </aff>`)
	return L
}

// splitDate splits a raw manuscript date. Both "2024-08-12" and
// "12-08-2024" orderings occur; a 4-digit leading component is a year.
func splitDate(raw string) (day, month, year string) {
	parts := strings.Split(raw, "-")
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	if len(get(0)) == 4 {
		return get(2), get(1), get(0)
	}
	return get(0), get(1), get(2)
}

func appendBody(L []string, art *types.Article, gen *IDGen, targets Targets) []string {
	L = append(L, banner("BODY")...)
	L = append(L, `  <body>`)

	for si := range art.Sections {
		sec := &art.Sections[si]
		L = append(L, fmt.Sprintf(`    <sec%s>`, secTypeAttr(sec.SecType)))
		L = append(L, fmt.Sprintf(`      <title id="%s">%s</title>`, gen.Next("title"), xmlEscape(sec.Title)))

		L = appendParagraphs(L, art, sec.Paragraphs, gen, targets, "      ")

		for bi := range sec.Subsections {
			sub := &sec.Subsections[bi]
			L = append(L, fmt.Sprintf(`      <sec%s>`, secTypeAttr(sub.SecType)))
			L = append(L, fmt.Sprintf(`        <title id="%s">%s</title>`, gen.Next("title"), xmlEscape(sub.Title)))
			L = appendParagraphs(L, art, sub.Paragraphs, gen, targets, "        ")
			L = append(L, `      </sec>`)
		}

		L = append(L, `    </sec>`, ``)
	}

	L = append(L, `  </body>`, ``)
	return L
}

// appendParagraphs renders body paragraphs and, after each one, emits any
// table or figure whose caption number the paragraph mentions and which
// has not been placed yet. The Placed flag guarantees exactly-once
// emission.
func appendParagraphs(L []string, art *types.Article, paras []types.Paragraph, gen *IDGen, targets Targets, indent string) []string {
	for _, p := range paras {
		inline := RenderInline(p.Runs, gen, targets)
		if strings.TrimSpace(inline) == "" {
			continue
		}
		L = append(L, fmt.Sprintf(`%s<p id="%s">%s</p>`, indent, gen.Next("p"), inline))

		plain := p.Text()
		for _, m := range xrefCueRe.FindAllStringSubmatch(plain, -1) {
			num, _ := strconv.Atoi(m[2])
			if strings.HasPrefix(strings.ToLower(m[1]), "t") {
				for ti := range art.Tables {
					if art.Tables[ti].Num == num && !art.Tables[ti].Placed {
						art.Tables[ti].Placed = true
						L = append(L, renderTable(&art.Tables[ti], gen, targets.Tables[num])...)
					}
				}
			} else {
				for fi := range art.Figures {
					if art.Figures[fi].Num == num && !art.Figures[fi].Placed {
						art.Figures[fi].Placed = true
						L = append(L, renderFigure(&art.Figures[fi], gen, targets.Figures[num])...)
					}
				}
			}
		}
	}
	return L
}

func secTypeAttr(secType string) string {
	if secType == "" {
		return ""
	}
	return fmt.Sprintf(` sec-type="%s"`, secType)
}

func appendBack(L []string, art *types.Article, gen *IDGen) []string {
	L = append(L, banner("BACK MATTER")...)
	L = append(L, `  <back>`)

	if len(art.References) > 0 {
		L = append(L, `    <ref-list>`, `      <title>References</title>`)
		for _, ref := range art.References {
			L = append(L, appendRef(ref, gen)...)
		}
		L = append(L, `    </ref-list>`)
	}

	L = append(L, `  </back>`, ``)
	return L
}

// appendRef renders one bibliography entry, omitting absent fields rather
// than emitting empty elements. When neither authors nor a title could be
// extracted, the raw source text is kept in a comment so nothing is lost.
func appendRef(ref types.Reference, gen *IDGen) []string {
	f := ref.Resolved()

	var L []string
	L = append(L,
		fmt.Sprintf(`      <ref id="%s">`, gen.RefID(ref.Num)),
		fmt.Sprintf(`        <label>%d.</label>`, ref.Num),
		fmt.Sprintf(`        <element-citation publication-type="%s">`, xmlEscape(f.PubType)),
	)

	if len(f.Authors) > 0 {
		L = append(L, `          <person-group person-group-type="author">`)
		for _, a := range f.Authors {
			L = append(L, `            <name name-style="western">`)
			L = append(L, fmt.Sprintf(`              <surname>%s</surname>`, xmlEscape(a.Surname)))
			if a.Given != "" {
				L = append(L, fmt.Sprintf(`              <given-names>%s</given-names>`, xmlEscape(a.Given)))
			}
			L = append(L, `            </name>`)
			if a.ORCID != "" {
				L = append(L, fmt.Sprintf(`            <contrib-id contrib-id-type="orcid">%s</contrib-id>`, xmlEscape(a.ORCID)))
			}
		}
		if f.HasEtAl {
			L = append(L, `            <etal/>`)
		}
		L = append(L, `          </person-group>`)
	}

	if f.Title != "" {
		L = append(L, fmt.Sprintf(`          <article-title>%s</article-title>`, xmlEscape(f.Title)))
	}
	if f.Journal != "" {
		L = append(L, fmt.Sprintf(`          <source>%s</source>`, xmlEscape(f.Journal)))
	}
	if f.Year != "" {
		L = append(L, fmt.Sprintf(`          <year iso-8601-date="%s">%s</year>`, xmlEscape(f.Year), xmlEscape(f.Year)))
	}
	if f.Volume != "" {
		L = append(L, fmt.Sprintf(`          <volume>%s</volume>`, xmlEscape(f.Volume)))
	}
	if f.Issue != "" {
		L = append(L, fmt.Sprintf(`          <issue>%s</issue>`, xmlEscape(f.Issue)))
	}
	if f.FPage != "" {
		L = append(L, fmt.Sprintf(`          <fpage>%s</fpage>`, xmlEscape(strings.TrimSpace(f.FPage))))
	}
	if f.LPage != "" {
		L = append(L, fmt.Sprintf(`          <lpage>%s</lpage>`, xmlEscape(strings.TrimSpace(f.LPage))))
	}
	if f.DOI != "" {
		L = append(L, fmt.Sprintf(`          <pub-id pub-id-type="doi">%s</pub-id>`, xmlEscape(f.DOI)))
	}

	if len(f.Authors) == 0 && f.Title == "" {
		raw := ref.Raw
		if len(raw) > 200 {
			raw = raw[:200]
		}
		L = append(L, fmt.Sprintf(`          <!-- RAW: %s -->`, xmlEscape(raw)))
	}

	L = append(L, `        </element-citation>`, `      </ref>`)
	return L
}

// appendFloats emits tables and figures never mentioned in body text.
func appendFloats(L []string, art *types.Article, gen *IDGen, targets Targets) []string {
	var blocks []string
	for i := range art.Tables {
		if !art.Tables[i].Placed {
			art.Tables[i].Placed = true
			blocks = append(blocks, renderTable(&art.Tables[i], gen, targets.Tables[art.Tables[i].Num])...)
		}
	}
	for i := range art.Figures {
		if !art.Figures[i].Placed {
			art.Figures[i].Placed = true
			blocks = append(blocks, renderFigure(&art.Figures[i], gen, targets.Figures[art.Figures[i].Num])...)
		}
	}

	if len(blocks) == 0 {
		return L
	}

	L = append(L, banner("FLOATS GROUP")...)
	L = append(L, `  <floats-group>`)
	L = append(L, blocks...)
	L = append(L, `  </floats-group>`, ``)
	return L
}
