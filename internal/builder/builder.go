// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package builder assembles the hierarchical document model from the flat
// paragraph and table stream. It is a state machine keyed on paragraph
// style labels; the only mutable cursor state is the index of the open
// top-level section and the index of the open subsection within it.
package builder

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/docx2jats/internal/extract"
	"github.com/pdiddy/docx2jats/pkg/types"
)

// secTypeMap maps section-title keywords to the controlled sec-type
// vocabulary. First substring match wins.
var secTypeMap = []struct {
	keyword string
	secType string
}{
	{"introduction", "intro"},
	{"material and methods", "methods"},
	{"materials and methods", "methods"},
	{"methods", "methods"},
	{"methodology", "methods"},
	{"results", "results"},
	{"discussion", "discussion"},
	{"conclusion", "conclusions"},
	{"conclusions", "conclusions"},
	{"acknowledgement", "acknowledgments"},
	{"acknowledgements", "acknowledgments"},
	{"acknowledgment", "acknowledgments"},
	{"acknowledgments", "acknowledgments"},
	{"supplementary", "supplementary-material"},
	{"abbreviations", "abbreviations"},
	{"case report", "cases"},
}

// SecType classifies a section title against the controlled vocabulary.
// Returns "" when no keyword matches.
func SecType(title string) string {
	lc := strings.ToLower(strings.TrimSpace(title))
	for _, e := range secTypeMap {
		if strings.Contains(lc, e.keyword) {
			return e.secType
		}
	}
	return ""
}

// skipHeadings lists top-level headings whose content is handled elsewhere
// (reference list) or dropped (funding, conflict, consent boilerplate).
var skipHeadings = []string{
	"reference", "source of fund", "conflict", "ethical", "patient consent",
}

// bodyStyles are the paragraph styles treated as body prose.
var bodyStyles = map[string]bool{
	"Paragraph 1":    true,
	"2nd Para":       true,
	"List Paragraph": true,
	"Normal":         true,
}

var (
	abstractLabelRe = regexp.MustCompile(`(?i)^(Background|Methods?|Results?|Conclusion|Objective|Aim|Discussion|Summary):\s*`)

	receivedRe = regexp.MustCompile(`Received:\s*([\d\-]+)`)
	acceptedRe = regexp.MustCompile(`Accepted:\s*([\d\-]+)`)

	tableCaptionRe = regexp.MustCompile(`(?i)Table\s+(\d+)`)
	figCaptionRe   = regexp.MustCompile(`(?i)\bFig(?:ure|\.)?\s+(\d+)`)
)

// Build walks the document once for metadata, body, and references, then
// merges native table objects and detects figures in follow-up passes.
func Build(doc *types.Document) *types.Article {
	art := &types.Article{}

	curSec, curSub := -1, -1
	refNum := 1
	captionsSeen := 0

	for _, p := range doc.Paragraphs {
		txt := strings.TrimSpace(p.Text())

		switch style := p.Style; {
		case style == "Title":
			// Last occurrence wins.
			art.Title = txt

		case style == "Author Name":
			art.Authors = extract.ParseAuthorList(p)

		case style == "Authors affiliation" || style == "Last Authors affiliation":
			if txt == "" {
				continue
			}
			label, inst := extract.ParseAffiliation(p)
			if label == "" {
				label = nextLabel(art.Affiliations)
				inst = txt
			}
			art.Affiliations = append(art.Affiliations, types.Affiliation{Label: label, Institution: inst})

		case style == "Abstract":
			if txt == "" || isAbstractBoilerplate(txt) {
				continue
			}
			if m := abstractLabelRe.FindStringSubmatch(txt); m != nil {
				art.Abstract = append(art.Abstract, types.AbstractSection{
					Label: m[1],
					Text:  txt[len(m[0]):],
				})
			} else if n := len(art.Abstract); n > 0 {
				// Wrapped continuation of the most recent entry.
				art.Abstract[n-1].Text += " " + txt
			} else {
				art.Abstract = append(art.Abstract, types.AbstractSection{Text: txt})
			}

		case style == "Keywords":
			if idx := strings.Index(txt, "Keywords:"); idx >= 0 {
				for _, kw := range strings.Split(txt[idx+len("Keywords:"):], ",") {
					kw = strings.TrimRight(strings.TrimSpace(kw), ".")
					if kw != "" {
						art.Keywords = append(art.Keywords, kw)
					}
				}
			} else if strings.Contains(txt, "Received:") {
				if m := receivedRe.FindStringSubmatch(txt); m != nil {
					art.ReceivedDate = m[1]
				}
				if m := acceptedRe.FindStringSubmatch(txt); m != nil {
					art.AcceptedDate = m[1]
				}
			}

		case style == "Heading 1":
			if isSkippedHeading(txt) {
				curSec, curSub = -1, -1
				continue
			}
			art.Sections = append(art.Sections, types.Section{
				Title:   txt,
				SecType: SecType(txt),
			})
			curSec = len(art.Sections) - 1
			curSub = -1

		case style == "Heading 2":
			if curSec < 0 {
				continue
			}
			sec := &art.Sections[curSec]
			sec.Subsections = append(sec.Subsections, types.Section{
				Title:   txt,
				SecType: SecType(txt),
			})
			curSub = len(sec.Subsections) - 1

		case bodyStyles[style]:
			if txt == "" {
				continue
			}
			switch {
			case curSec >= 0 && curSub >= 0:
				sub := &art.Sections[curSec].Subsections[curSub]
				sub.Paragraphs = append(sub.Paragraphs, p)
			case curSec >= 0:
				sec := &art.Sections[curSec]
				sec.Paragraphs = append(sec.Paragraphs, p)
			}

		case style == "Reference":
			switch {
			case txt != "" && !strings.HasPrefix(txt, "http"):
				parsed := extract.ParseReference(txt)
				art.References = append(art.References, types.Reference{
					Num:    refNum,
					Raw:    txt,
					DOI:    parsed.DOI,
					Parsed: parsed,
				})
				refNum++
			case strings.HasPrefix(txt, "http") && len(art.References) > 0:
				// A bare URL line carries the DOI of the preceding entry.
				if doi := extract.FindDOI(txt); doi != "" {
					art.References[len(art.References)-1].DOI = doi
				}
			}

		case style == "Table caption":
			if txt == "" {
				continue
			}
			captionsSeen++
			num := captionsSeen
			if m := tableCaptionRe.FindStringSubmatch(txt); m != nil {
				num = atoi(m[1])
			}
			mergeTableCaption(art, num, txt)
		}
	}

	mergeNativeTables(art, doc.Tables)
	detectFigures(art, doc.Paragraphs)

	return art
}

func isAbstractBoilerplate(txt string) bool {
	return strings.Contains(txt, "Open Access") ||
		strings.Contains(strings.ToLower(txt), "reprint") ||
		strings.HasPrefix(txt, "For reprints")
}

func isSkippedHeading(txt string) bool {
	lc := strings.ToLower(txt)
	for _, s := range skipHeadings {
		if strings.Contains(lc, s) {
			return true
		}
	}
	return false
}

func nextLabel(affs []types.Affiliation) string {
	return strconv.Itoa(len(affs) + 1)
}

// mergeTableCaption attaches a caption to the placeholder with the same
// sequence number, or records a new caption-only placeholder.
func mergeTableCaption(art *types.Article, num int, caption string) {
	for i := range art.Tables {
		if art.Tables[i].Num == num {
			if art.Tables[i].Caption == "" {
				art.Tables[i].Caption = caption
			}
			return
		}
	}
	art.Tables = append(art.Tables, types.Table{Num: num, Caption: caption})
}

// mergeNativeTables converts the document's native table objects (grid
// spans become column-span counts, column widths become percentages of the
// row total) and merges them by sequence number with caption placeholders
// from the first pass.
func mergeNativeTables(art *types.Article, tables []types.DocTable) {
	for i, dt := range tables {
		num := i + 1
		rows := make([][]types.TableCell, 0, len(dt.Rows))
		for _, dr := range dt.Rows {
			row := make([]types.TableCell, 0, len(dr))
			for _, dc := range dr {
				span := dc.GridSpan
				if span < 1 {
					span = 1
				}
				row = append(row, types.TableCell{Text: dc.Text, ColSpan: span})
			}
			rows = append(rows, row)
		}
		widths := normalizeWidths(dt.ColWidths)

		merged := false
		for j := range art.Tables {
			if art.Tables[j].Num == num && len(art.Tables[j].Rows) == 0 {
				art.Tables[j].Rows = rows
				art.Tables[j].ColWidths = widths
				merged = true
				break
			}
		}
		if !merged {
			art.Tables = append(art.Tables, types.Table{Num: num, Rows: rows, ColWidths: widths})
		}
	}
}

// normalizeWidths converts raw column width hints to percentages of the
// row total, rounded to two decimals.
func normalizeWidths(raw []int) []float64 {
	total := 0
	for _, w := range raw {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return nil
	}
	out := make([]float64, len(raw))
	for i, w := range raw {
		if w < 1 {
			w = 1
		}
		out[i] = math.Round(float64(w)/float64(total)*100*100) / 100
	}
	return out
}

// captionOffsets is the adjacency order tried when associating a caption
// paragraph with an embedded image.
var captionOffsets = []int{1, 2, -1}

// detectFigures scans paragraphs for embedded-image markers and associates
// the nearest adjacent caption paragraph.
func detectFigures(art *types.Article, paras []types.Paragraph) {
	for i, p := range paras {
		if !p.HasImage {
			continue
		}

		num := len(art.Figures) + 1
		caption := ""
		for _, off := range captionOffsets {
			j := i + off
			if j < 0 || j >= len(paras) {
				continue
			}
			txt := strings.TrimSpace(paras[j].Text())
			if txt == "" {
				continue
			}
			if paras[j].Style == "Figure caption" || figCaptionRe.MatchString(txt) {
				caption = txt
				if m := figCaptionRe.FindStringSubmatch(txt); m != nil {
					num = atoi(m[1])
				}
				break
			}
		}

		merged := false
		for j := range art.Figures {
			if art.Figures[j].Num == num {
				art.Figures[j].HasImage = true
				if art.Figures[j].Caption == "" {
					art.Figures[j].Caption = caption
				}
				merged = true
				break
			}
		}
		if !merged {
			art.Figures = append(art.Figures, types.Figure{Num: num, Caption: caption, HasImage: true})
		}
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
