// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich supplements parsed bibliography entries with metadata
// from public registries. Lookups are best-effort: a failed or empty
// lookup never fails the conversion, it only leaves the entry with its
// locally parsed fields.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// Source is one bibliographic registry. Lookup returns nil (no error)
// when the registry has no usable record for the entry.
type Source interface {
	Name() string
	Lookup(ctx context.Context, ref types.Reference, cfg types.EnrichmentConfig) (*types.CitationRecord, error)
}

const defaultInterCallDelay = time.Second

// DefaultSources returns the registry list in precedence order.
func DefaultSources(cfg types.EnrichmentConfig) []Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	return []Source{
		&CrossrefSource{Client: client, Email: cfg.Email},
		&OpenAlexSource{Client: client, Email: cfg.Email},
	}
}

// EnrichAll runs every source against every incomplete reference,
// mutating refs in place: records are appended in source order and a DOI
// discovered by any source backfills an entry that had none. Returns the
// number of entries that gained at least one record. Failures are logged
// to progress and swallowed.
func EnrichAll(ctx context.Context, refs []types.Reference, sources []Source, cfg types.EnrichmentConfig, progress io.Writer) (int, error) {
	if progress == nil {
		progress = io.Discard
	}
	delay := cfg.InterCallDelay
	if delay <= 0 {
		delay = defaultInterCallDelay
	}

	enriched := 0
	first := true
	for i := range refs {
		if !needsEnrichment(refs[i]) {
			continue
		}

		got := false
		for _, src := range sources {
			if !first {
				select {
				case <-ctx.Done():
					return enriched, ctx.Err()
				case <-time.After(delay):
				}
			}
			first = false

			rec, err := src.Lookup(ctx, refs[i], cfg)
			if err != nil {
				fmt.Fprintf(progress, "ref %d: %s lookup failed: %v\n", refs[i].Num, src.Name(), err)
				continue
			}
			if rec == nil {
				continue
			}

			refs[i].Enrichments = append(refs[i].Enrichments, types.SourceRecord{
				Source: src.Name(),
				Record: *rec,
			})
			if refs[i].DOI == "" && rec.DOI != "" {
				refs[i].DOI = rec.DOI
			}
			got = true
		}
		if got {
			enriched++
		}
	}
	return enriched, nil
}

// needsEnrichment reports whether the locally parsed record is missing
// anything a registry could supply.
func needsEnrichment(ref types.Reference) bool {
	f := ref.Parsed
	return ref.DOI == "" || f.Title == "" || f.Journal == "" || f.Year == "" ||
		f.Volume == "" || f.FPage == "" || len(f.Authors) == 0
}
