// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates the conversion pipeline: DOCX parsing,
// document model assembly, optional bibliographic enrichment, and JATS
// serialization.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docx2jats/internal/builder"
	"github.com/pdiddy/docx2jats/internal/docx"
	"github.com/pdiddy/docx2jats/internal/enrich"
	"github.com/pdiddy/docx2jats/internal/jats"
	"github.com/pdiddy/docx2jats/pkg/types"
)

// Options configures one conversion run.
type Options struct {
	Journal    types.JournalMeta
	Enrichment types.EnrichmentConfig

	// Sources overrides the default registry list; used by tests.
	Sources []enrich.Source

	// Progress receives per-stage status lines. Nil discards them.
	Progress io.Writer
}

// Result is the outcome of one conversion.
type Result struct {
	XML     string
	Article *types.Article
	Summary types.Summary
}

// Run converts a DOCX archive read from r into a JATS document.
// Enrichment failures are reported on Progress and never fail the run.
func Run(ctx context.Context, r io.ReaderAt, size int64, opts Options) (*Result, error) {
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	doc, err := docx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	art := builder.Build(doc)
	fmt.Fprintf(progress, "extracted: %d authors, %d sections, %d references\n",
		len(art.Authors), len(art.Sections), len(art.References))

	if opts.Enrichment.Enabled {
		sources := opts.Sources
		if sources == nil {
			sources = enrich.DefaultSources(opts.Enrichment)
		}
		n, err := enrich.EnrichAll(ctx, art.References, sources, opts.Enrichment, progress)
		if err != nil {
			return nil, fmt.Errorf("enriching references: %w", err)
		}
		fmt.Fprintf(progress, "enriched: %d/%d references\n", n, len(art.References))
	}

	xml := jats.Render(art, opts.Journal)

	return &Result{
		XML:     xml,
		Article: art,
		Summary: summarize(art, len(xml)),
	}, nil
}

// RunFile converts the DOCX file at path.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return Run(ctx, f, st.Size(), opts)
}

func summarize(art *types.Article, outputBytes int) types.Summary {
	return types.Summary{
		Authors:      len(art.Authors),
		Affiliations: len(art.Affiliations),
		Sections:     len(art.Sections),
		References:   len(art.References),
		Tables:       len(art.Tables),
		Figures:      len(art.Figures),
		OutputBytes:  outputBytes,
	}
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int { return r.Converted + r.Failed }

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// RunBatch converts each DOCX path, writing <stem>.xml next to it or under
// outDir when non-empty. Per-file status goes to w; a failed file does not
// stop the batch.
func RunBatch(ctx context.Context, paths []string, outDir string, opts Options, w io.Writer) BatchResult {
	if w == nil {
		w = io.Discard
	}
	if opts.Progress == nil {
		opts.Progress = w
	}

	var result BatchResult
	for _, path := range paths {
		res, err := RunFile(ctx, path, opts)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
			result.Failed++
			continue
		}

		outPath := outputPath(path, outDir)
		if err := os.WriteFile(outPath, []byte(res.XML), 0o644); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "converted: %s (%d refs, %d tables, %d bytes)\n",
			filepath.Base(path), res.Summary.References, res.Summary.Tables, res.Summary.OutputBytes)
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

func outputPath(inPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath)) + ".xml"
	if outDir == "" {
		return filepath.Join(filepath.Dir(inPath), base)
	}
	return filepath.Join(outDir, base)
}
