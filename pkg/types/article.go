// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Article is the document model extracted from one manuscript. It is built
// once per conversion and is read-only afterwards, except for the Placed
// flags on tables and figures which the serializer consumes.
type Article struct {
	// Title is the manuscript title. A later Title-styled paragraph
	// overwrites an earlier one.
	Title string `json:"title" yaml:"title"`

	// Authors lists the contributing authors in byline order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Affiliations lists institutions in document order. Authors reference
	// them by numeric label; a dangling label is tolerated.
	Affiliations []Affiliation `json:"affiliations" yaml:"affiliations"`

	// Abstract holds abstract entries in appearance order. A structured
	// abstract has one entry per label (Background, Methods, ...); an
	// unstructured abstract is a single entry with an empty label.
	Abstract []AbstractSection `json:"abstract" yaml:"abstract"`

	// Keywords lists the author-supplied keywords.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ReceivedDate and AcceptedDate are raw date strings from the
	// manuscript history line (e.g. "12-08-2024").
	ReceivedDate string `json:"received_date,omitempty" yaml:"received_date,omitempty"`
	AcceptedDate string `json:"accepted_date,omitempty" yaml:"accepted_date,omitempty"`

	// Sections is the body section tree, one level of nesting deep.
	Sections []Section `json:"sections" yaml:"sections"`

	// References lists bibliography entries in appearance order. The
	// 1-based Num is the join key for in-text citations.
	References []Reference `json:"references" yaml:"references"`

	// Tables and Figures are floating elements placed at first in-text
	// mention or collected at the end.
	Tables  []Table  `json:"tables" yaml:"tables"`
	Figures []Figure `json:"figures" yaml:"figures"`
}

// Author is one entry of the manuscript byline. An author without a
// surname is dropped during extraction.
type Author struct {
	Surname string `json:"surname" yaml:"surname"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// AffiliationLabels holds the numeric labels of the affiliations this
	// author is marked with.
	AffiliationLabels []string `json:"affiliation_labels,omitempty" yaml:"affiliation_labels,omitempty"`

	// Corresponding is set when the byline marks the author with "*".
	Corresponding bool `json:"corresponding,omitempty" yaml:"corresponding,omitempty"`

	// ORCID is the bare ORCID identifier when known (usually from enrichment).
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// Affiliation maps a numeric label to a free-text institution string.
type Affiliation struct {
	Label       string `json:"label" yaml:"label"`
	Institution string `json:"institution" yaml:"institution"`
}

// AbstractSection is one labeled (or unlabeled) abstract entry.
type AbstractSection struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Text  string `json:"text" yaml:"text"`
}

// Section is a body section. Subsections nest one level only.
type Section struct {
	Title string `json:"title" yaml:"title"`

	// SecType is the classified section type from the controlled
	// vocabulary (e.g. "intro", "methods"), or empty when unclassified.
	SecType string `json:"sec_type,omitempty" yaml:"sec_type,omitempty"`

	// Paragraphs holds the styled source paragraphs, not yet rendered.
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs"`

	Subsections []Section `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// Name is a parsed person name used by authors and reference entries.
type Name struct {
	Surname string `json:"surname" yaml:"surname"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	ORCID   string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// RefFields holds the structured fields of one bibliography entry. Absent
// fields are empty strings so the serializer can omit them uniformly.
type RefFields struct {
	Authors []Name `json:"authors,omitempty" yaml:"authors,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
	Volume  string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue   string `json:"issue,omitempty" yaml:"issue,omitempty"`
	FPage   string `json:"fpage,omitempty" yaml:"fpage,omitempty"`
	LPage   string `json:"lpage,omitempty" yaml:"lpage,omitempty"`
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	HasEtAl bool   `json:"has_et_al,omitempty" yaml:"has_et_al,omitempty"`

	// PubType is the publication kind: "journal" or "thesis".
	PubType string `json:"pub_type,omitempty" yaml:"pub_type,omitempty"`
}

// SourceRecord is one enrichment result, tagged with the registry that
// produced it. Records are stored in source priority order.
type SourceRecord struct {
	Source string      `json:"source" yaml:"source"`
	Record CitationRecord `json:"record" yaml:"record"`
}

// CitationRecord is the normalized citation metadata returned by a
// bibliographic registry.
type CitationRecord struct {
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
	Volume  string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue   string `json:"issue,omitempty" yaml:"issue,omitempty"`
	FPage   string `json:"fpage,omitempty" yaml:"fpage,omitempty"`
	LPage   string `json:"lpage,omitempty" yaml:"lpage,omitempty"`
	Authors []Name `json:"authors,omitempty" yaml:"authors,omitempty"`
}

// Reference is one bibliography entry. Num is stable for the lifetime of
// the conversion and is the join key for citation cross-references.
type Reference struct {
	Num    int       `json:"num" yaml:"num"`
	Raw    string    `json:"raw" yaml:"raw"`
	DOI    string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	Parsed RefFields `json:"parsed" yaml:"parsed"`

	// Enrichments holds per-registry records in priority order. Empty when
	// enrichment is disabled or every lookup came back empty.
	Enrichments []SourceRecord `json:"enrichments,omitempty" yaml:"enrichments,omitempty"`
}

// Resolved merges enrichment records over the locally parsed fields,
// field by field. Earlier enrichment sources take precedence; a missing
// field falls through to the next source and finally to the parsed value.
func (r Reference) Resolved() RefFields {
	out := RefFields{HasEtAl: r.Parsed.HasEtAl, PubType: r.Parsed.PubType}

	pick := func(dst *string, get func(RefFields) string, getRec func(CitationRecord) string) {
		for _, sr := range r.Enrichments {
			if v := getRec(sr.Record); v != "" {
				*dst = v
				return
			}
		}
		*dst = get(r.Parsed)
	}

	pick(&out.Title, func(f RefFields) string { return f.Title }, func(c CitationRecord) string { return c.Title })
	pick(&out.Journal, func(f RefFields) string { return f.Journal }, func(c CitationRecord) string { return c.Journal })
	pick(&out.Year, func(f RefFields) string { return f.Year }, func(c CitationRecord) string { return c.Year })
	pick(&out.Volume, func(f RefFields) string { return f.Volume }, func(c CitationRecord) string { return c.Volume })
	pick(&out.Issue, func(f RefFields) string { return f.Issue }, func(c CitationRecord) string { return c.Issue })
	pick(&out.FPage, func(f RefFields) string { return f.FPage }, func(c CitationRecord) string { return c.FPage })
	pick(&out.LPage, func(f RefFields) string { return f.LPage }, func(c CitationRecord) string { return c.LPage })

	out.DOI = r.DOI
	if out.DOI == "" {
		pick(&out.DOI, func(f RefFields) string { return f.DOI }, func(c CitationRecord) string { return c.DOI })
	}

	out.Authors = r.Parsed.Authors
	for _, sr := range r.Enrichments {
		if len(sr.Record.Authors) > 0 {
			out.Authors = sr.Record.Authors
			break
		}
	}

	if out.PubType == "" {
		out.PubType = "journal"
	}
	return out
}

// TableCell is one table cell with its column span.
type TableCell struct {
	Text    string `json:"text" yaml:"text"`
	ColSpan int    `json:"colspan" yaml:"colspan"`
}

// Table is a floating table block.
type Table struct {
	// Num is the sequence number declared in the caption ("Table 3"),
	// falling back to discovery order.
	Num     int    `json:"num" yaml:"num"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`

	// Rows holds cell grids from the native table object. The first row is
	// treated as the header.
	Rows [][]TableCell `json:"rows,omitempty" yaml:"rows,omitempty"`

	// ColWidths are column widths as percentages of the row total.
	ColWidths []float64 `json:"col_widths,omitempty" yaml:"col_widths,omitempty"`

	// Placed is consumed exactly once by the serializer.
	Placed bool `json:"-" yaml:"-"`
}

// Figure is a floating figure block. Image content is not extracted; the
// serializer emits a placeholder graphic reference.
type Figure struct {
	Num      int    `json:"num" yaml:"num"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	HasImage bool   `json:"has_image" yaml:"has_image"`

	// Placed is consumed exactly once by the serializer.
	Placed bool `json:"-" yaml:"-"`
}

// Summary holds counters from one conversion run, surfaced to the CLI and
// the X-Stats response header.
type Summary struct {
	Authors      int `json:"authors" yaml:"authors"`
	Affiliations int `json:"affiliations" yaml:"affiliations"`
	Sections     int `json:"sections" yaml:"sections"`
	References   int `json:"refs" yaml:"refs"`
	Tables       int `json:"tables" yaml:"tables"`
	Figures      int `json:"figures" yaml:"figures"`

	// OutputBytes is the size of the rendered JATS document.
	OutputBytes int `json:"size" yaml:"size"`
}
