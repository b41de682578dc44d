// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"testing"
)

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/></w:style>
  <w:style w:type="paragraph" w:styleId="AuthorName"><w:name w:val="Author Name"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="Heading 1"/></w:style>
</w:styles>`

// buildDocx assembles an in-memory archive with the given document.xml body.
func buildDocx(t *testing.T, body string) ([]byte, int64) {
	return buildDocxStyles(t, stylesXML, body)
}

func buildDocxStyles(t *testing.T, styles, body string) ([]byte, int64) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`

	for name, content := range map[string]string{
		"word/document.xml": doc,
		"word/styles.xml":   styles,
	} {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes(), int64(buf.Len())
}

func TestParseStyleResolution(t *testing.T) {
	data, size := buildDocx(t, `
<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>A Study</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="AuthorName"/></w:pPr><w:r><w:t>Smith J</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Unmapped"/></w:pPr><w:r><w:t>body</w:t></w:r></w:p>`)

	doc, err := Parse(bytes.NewReader(data), size)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Paragraphs) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(doc.Paragraphs))
	}
	if doc.Paragraphs[0].Style != "Title" {
		t.Errorf("style = %q, want Title", doc.Paragraphs[0].Style)
	}
	if doc.Paragraphs[1].Style != "Author Name" {
		t.Errorf("style = %q, want display name from styles.xml", doc.Paragraphs[1].Style)
	}
	// Unmapped style IDs pass through as-is.
	if doc.Paragraphs[2].Style != "Unmapped" {
		t.Errorf("style = %q, want Unmapped", doc.Paragraphs[2].Style)
	}
	if got := doc.Paragraphs[0].Text(); got != "A Study" {
		t.Errorf("text = %q", got)
	}
}

// Word persists built-in style names in their internal lowercase form
// ("heading 1", "caption"); resolution must surface the UI spelling.
func TestParseBuiltinStyleNames(t *testing.T) {
	const wordStyles = `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>
  <w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="caption"/></w:style>
  <w:style w:type="paragraph" w:styleId="Reference"><w:name w:val="Reference"/></w:style>
</w:styles>`

	data, size := buildDocxStyles(t, wordStyles, `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Introduction</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Study design</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Caption"/></w:pPr><w:r><w:t>Table 1: Demographics</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Reference"/></w:pPr><w:r><w:t>Smith J. A study.</w:t></w:r></w:p>`)

	doc, err := Parse(bytes.NewReader(data), size)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"Heading 1", "Heading 2", "Caption", "Reference"}
	if len(doc.Paragraphs) != len(want) {
		t.Fatalf("got %d paragraphs, want %d", len(doc.Paragraphs), len(want))
	}
	for i, w := range want {
		if got := doc.Paragraphs[i].Style; got != w {
			t.Errorf("paragraph %d style = %q, want %q", i, got, w)
		}
	}
}

func TestParseRunFormatting(t *testing.T) {
	data, size := buildDocx(t, `
<w:p><w:r><w:t>plain </w:t></w:r>
<w:r><w:rPr><w:vertAlign w:val="superscript"/></w:rPr><w:t>1,2</w:t></w:r>
<w:r><w:rPr><w:i/></w:rPr><w:t>italic</w:t></w:r>
<w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>not bold</w:t></w:r>
<w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r></w:p>`)

	doc, err := Parse(bytes.NewReader(data), size)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	runs := doc.Paragraphs[0].Runs
	if len(runs) != 5 {
		t.Fatalf("got %d runs, want 5", len(runs))
	}
	if runs[0].Superscript || runs[0].Italic || runs[0].Bold {
		t.Errorf("plain run has formatting: %+v", runs[0])
	}
	if !runs[1].Superscript || runs[1].Text != "1,2" {
		t.Errorf("superscript run = %+v", runs[1])
	}
	if !runs[2].Italic {
		t.Errorf("italic run = %+v", runs[2])
	}
	// Toggle with val="0" means off.
	if runs[3].Bold {
		t.Errorf("b val=0 run should not be bold: %+v", runs[3])
	}
	if !runs[4].Bold {
		t.Errorf("bare b toggle should be bold: %+v", runs[4])
	}
}

func TestParseTables(t *testing.T) {
	data, size := buildDocx(t, `
<w:p><w:r><w:t>before</w:t></w:r></w:p>
<w:tbl>
  <w:tblGrid><w:gridCol w:w="3000"/><w:gridCol w:w="1000"/></w:tblGrid>
  <w:tr>
    <w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Header</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>b</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>
<w:p><w:r><w:t>after</w:t></w:r></w:p>`)

	doc, err := Parse(bytes.NewReader(data), size)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Table content stays out of the paragraph stream.
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(doc.Paragraphs))
	}
	if len(doc.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(doc.Tables))
	}

	tbl := doc.Tables[0]
	if got := len(tbl.Rows); got != 2 {
		t.Fatalf("got %d rows, want 2", got)
	}
	if tbl.Rows[0][0].GridSpan != 2 {
		t.Errorf("gridSpan = %d, want 2", tbl.Rows[0][0].GridSpan)
	}
	if tbl.Rows[0][0].Text != "Header" {
		t.Errorf("header cell = %q", tbl.Rows[0][0].Text)
	}
	if tbl.Rows[1][1].Text != "b" {
		t.Errorf("cell = %q", tbl.Rows[1][1].Text)
	}
	if len(tbl.ColWidths) != 2 || tbl.ColWidths[0] != 3000 {
		t.Errorf("colWidths = %v", tbl.ColWidths)
	}
}

func TestParseImageMarker(t *testing.T) {
	data, size := buildDocx(t, `
<w:p><w:r><w:drawing/></w:r></w:p>
<w:p><w:r><w:t>Figure 1: flow chart</w:t></w:r></w:p>`)

	doc, err := Parse(bytes.NewReader(data), size)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.Paragraphs[0].HasImage {
		t.Error("drawing paragraph should be flagged HasImage")
	}
	if doc.Paragraphs[1].HasImage {
		t.Error("caption paragraph should not be flagged")
	}
}

func TestParseMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/other.xml")
	f.Write([]byte("<x/>"))
	zw.Close()

	_, err := Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err == nil {
		t.Fatal("expected error for archive without word/document.xml")
	}
}
