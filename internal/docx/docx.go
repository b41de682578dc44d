// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads Microsoft Word documents into the flat paragraph and
// table stream the pipeline consumes. It parses word/document.xml from the
// ZIP container directly (archive/zip + encoding/xml); paragraph style IDs
// are resolved to display names via word/styles.xml so classification can
// key on the names authors see ("Author Name", "Heading 1", ...).
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// Open reads a .docx file from disk.
func Open(path string) (*types.Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()
	return parseArchive(&r.Reader)
}

// Parse reads a .docx document from an in-memory archive.
func Parse(r io.ReaderAt, size int64) (*types.Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	return parseArchive(zr)
}

func parseArchive(zr *zip.Reader) (*types.Document, error) {
	var docFile, stylesFile *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			docFile = f
		case "word/styles.xml":
			stylesFile = f
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	styles := map[string]string{}
	if stylesFile != nil {
		rc, err := stylesFile.Open()
		if err == nil {
			styles = parseStyles(rc)
			rc.Close()
		}
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return parseDocument(rc, styles)
}

// builtinNames maps the internal primary names Word persists for built-in
// styles to the names shown in the Word UI. word/styles.xml stores
// "heading 1"; only the UI spells it "Heading 1". Custom template styles
// ("Reference", "Table caption") are stored under their display name
// already and pass through untouched.
var builtinNames = map[string]string{
	"caption":   "Caption",
	"header":    "Header",
	"footer":    "Footer",
	"body text": "Body Text",
}

func init() {
	for i := 1; i <= 9; i++ {
		builtinNames[fmt.Sprintf("heading %d", i)] = fmt.Sprintf("Heading %d", i)
	}
}

// parseStyles builds the styleId → display-name map from word/styles.xml.
// Built-in style names are translated to their UI form.
func parseStyles(r io.Reader) map[string]string {
	styles := make(map[string]string)
	dec := xml.NewDecoder(r)
	var currentID string

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "style":
			currentID = attrValue(se, "styleId")
		case "name":
			if currentID != "" {
				if v := attrValue(se, "val"); v != "" {
					if ui, ok := builtinNames[v]; ok {
						v = ui
					}
					styles[currentID] = v
				}
			}
		}
	}
	return styles
}

// parseDocument walks the document.xml token stream, collecting body-level
// paragraphs with their formatted runs, and tables with cell grids. Content
// inside tables is kept out of the paragraph stream, matching the flat
// paragraphs/tables split the pipeline expects.
func parseDocument(r io.Reader, styles map[string]string) (*types.Document, error) {
	dec := xml.NewDecoder(r)
	doc := &types.Document{}

	var (
		para     *types.Paragraph
		run      *types.Run
		inRPr    bool
		inPPr    bool
		inText   bool
		tblDepth int
		tbl      *types.DocTable
		row      []types.DocCell
		cell     *types.DocCell
		cellText strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
				if tblDepth == 1 {
					tbl = &types.DocTable{}
				}
			case "gridCol":
				if tblDepth == 1 && tbl != nil {
					if w, err := strconv.Atoi(attrValue(t, "w")); err == nil {
						tbl.ColWidths = append(tbl.ColWidths, w)
					}
				}
			case "tr":
				if tblDepth == 1 {
					row = []types.DocCell{}
				}
			case "tc":
				if tblDepth == 1 {
					cell = &types.DocCell{GridSpan: 1}
					cellText.Reset()
				}
			case "gridSpan":
				if tblDepth == 1 && cell != nil {
					if n, err := strconv.Atoi(attrValue(t, "val")); err == nil && n > 1 {
						cell.GridSpan = n
					}
				}
			case "p":
				if tblDepth == 0 {
					para = &types.Paragraph{}
				}
			case "pPr":
				inPPr = true
			case "pStyle":
				if para != nil && tblDepth == 0 {
					id := attrValue(t, "val")
					if name, ok := styles[id]; ok {
						para.Style = name
					} else {
						para.Style = id
					}
				}
			case "r":
				if !inPPr {
					run = &types.Run{}
				}
			case "rPr":
				inRPr = true
			case "vertAlign":
				if inRPr && run != nil && attrValue(t, "val") == "superscript" {
					run.Superscript = true
				}
			case "i":
				if inRPr && run != nil {
					run.Italic = onOff(t)
				}
			case "b":
				if inRPr && run != nil {
					run.Bold = onOff(t)
				}
			case "t":
				if run != nil {
					inText = true
				}
			case "tab":
				if run != nil && !inRPr {
					run.Text += "\t"
				}
			case "drawing", "pict", "object":
				if para != nil && tblDepth == 0 {
					para.HasImage = true
				}
			}

		case xml.CharData:
			if inText && run != nil {
				run.Text += string(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRPr = false
			case "pPr":
				inPPr = false
			case "r":
				if run != nil {
					if tblDepth == 0 && para != nil {
						para.Runs = append(para.Runs, *run)
					} else if cell != nil {
						cellText.WriteString(run.Text)
					}
					run = nil
				}
			case "p":
				if tblDepth == 0 {
					if para != nil {
						doc.Paragraphs = append(doc.Paragraphs, *para)
						para = nil
					}
				} else if cell != nil {
					cellText.WriteString("\n")
				}
			case "tc":
				if tblDepth == 1 && cell != nil {
					cell.Text = strings.TrimSpace(cellText.String())
					row = append(row, *cell)
					cell = nil
				}
			case "tr":
				if tblDepth == 1 && tbl != nil && row != nil {
					tbl.Rows = append(tbl.Rows, row)
					row = nil
				}
			case "tbl":
				if tblDepth == 1 && tbl != nil {
					doc.Tables = append(doc.Tables, *tbl)
					tbl = nil
				}
				tblDepth--
			}
		}
	}

	return doc, nil
}

// onOff evaluates an OOXML toggle property. An absent val attribute means
// the property is on.
func onOff(se xml.StartElement) bool {
	switch attrValue(se, "val") {
	case "0", "false", "none", "off":
		return false
	}
	return true
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
