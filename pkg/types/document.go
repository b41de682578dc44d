// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Run is one formatted text fragment within a paragraph.
type Run struct {
	Text        string `json:"text" yaml:"text"`
	Superscript bool   `json:"superscript,omitempty" yaml:"superscript,omitempty"`
	Italic      bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
	Bold        bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
}

// Paragraph is one source paragraph: a style label plus an ordered run
// sequence. The style label is the only structural signal the source
// format carries.
type Paragraph struct {
	Style string `json:"style" yaml:"style"`
	Runs  []Run  `json:"runs" yaml:"runs"`

	// HasImage is set when the paragraph carries an embedded image marker.
	// Used for figure detection; image content itself is never extracted.
	HasImage bool `json:"has_image,omitempty" yaml:"has_image,omitempty"`
}

// Text returns the concatenated plain text of all runs.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// DocCell is one raw table cell from the source document.
type DocCell struct {
	Text string `json:"text" yaml:"text"`

	// GridSpan is the number of grid columns the cell covers (>= 1).
	GridSpan int `json:"grid_span" yaml:"grid_span"`
}

// DocTable is one raw table from the source document.
type DocTable struct {
	Rows [][]DocCell `json:"rows" yaml:"rows"`

	// ColWidths are raw column width hints in source units (twips).
	ColWidths []int `json:"col_widths,omitempty" yaml:"col_widths,omitempty"`
}

// Document is the read-only, already-parsed view of a word-processor file
// that the pipeline consumes: ordered paragraphs and ordered tables.
type Document struct {
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs"`
	Tables     []DocTable  `json:"tables" yaml:"tables"`
}
