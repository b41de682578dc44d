// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/docx2jats/pkg/types"
)

func fastCfg() types.EnrichmentConfig {
	return types.EnrichmentConfig{
		Enabled:        true,
		InterCallDelay: time.Millisecond,
	}
}

func TestCrossrefLookupByDOI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "10.1000") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"message":{
			"DOI":"10.1000/xyz123",
			"title":["A Study of X"],
			"container-title":["Journal of Clinical Medicine"],
			"volume":"12","issue":"3","page":"100-105",
			"issued":{"date-parts":[[2020,6,1]]},
			"author":[{"given":"John","family":"Smith","ORCID":"http://orcid.org/0000-0001-2345-6789"}]
		}}`)
	}))
	defer ts.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = orig }()

	src := &CrossrefSource{Client: ts.Client()}
	rec, err := src.Lookup(context.Background(), types.Reference{Num: 1, DOI: "10.1000/xyz123"}, fastCfg())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec == nil {
		t.Fatal("got nil record")
	}
	if rec.Title != "A Study of X" || rec.Journal != "Journal of Clinical Medicine" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Year != "2020" || rec.FPage != "100" || rec.LPage != "105" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Authors) != 1 || rec.Authors[0].ORCID != "0000-0001-2345-6789" {
		t.Errorf("authors = %+v", rec.Authors)
	}
}

func TestCrossrefQueryRejectsYearMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"items":[{
			"DOI":"10.1000/other","title":["Something Else"],
			"issued":{"date-parts":[[1999]]}
		}]}}`)
	}))
	defer ts.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = orig }()

	src := &CrossrefSource{Client: ts.Client()}
	ref := types.Reference{Num: 1, Parsed: types.RefFields{Title: "A study", Year: "2020"}}
	rec, err := src.Lookup(context.Background(), ref, fastCfg())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec != nil {
		t.Errorf("year-mismatched hit should be discarded, got %+v", rec)
	}
}

func TestOpenAlexLookupByDOI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"title":"A Study of X",
			"doi":"https://doi.org/10.1000/xyz123",
			"publication_year":2020,
			"biblio":{"volume":"12","issue":"3","first_page":"100","last_page":"105"},
			"primary_location":{"source":{"display_name":"J Clin Med"}},
			"authorships":[{"author":{"display_name":"John Smith","orcid":"https://orcid.org/0000-0001-2345-6789"}}]
		}`)
	}))
	defer ts.Close()

	orig := openAlexAPIBase
	openAlexAPIBase = ts.URL
	defer func() { openAlexAPIBase = orig }()

	src := &OpenAlexSource{Client: ts.Client()}
	rec, err := src.Lookup(context.Background(), types.Reference{Num: 1, DOI: "10.1000/xyz123"}, fastCfg())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec == nil {
		t.Fatal("got nil record")
	}
	if rec.DOI != "10.1000/xyz123" {
		t.Errorf("doi = %q", rec.DOI)
	}
	if rec.Journal != "J Clin Med" || rec.Volume != "12" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Authors) != 1 || rec.Authors[0].Surname != "Smith" || rec.Authors[0].Given != "John" {
		t.Errorf("authors = %+v", rec.Authors)
	}
}

// failingSource always errors; used to verify failures are swallowed.
type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Lookup(context.Context, types.Reference, types.EnrichmentConfig) (*types.CitationRecord, error) {
	return nil, fmt.Errorf("registry down")
}

// stubSource returns a fixed record.
type stubSource struct {
	name string
	rec  types.CitationRecord
}

func (s stubSource) Name() string { return s.name }
func (s stubSource) Lookup(context.Context, types.Reference, types.EnrichmentConfig) (*types.CitationRecord, error) {
	rec := s.rec
	return &rec, nil
}

func TestEnrichAllSwallowsFailures(t *testing.T) {
	refs := []types.Reference{
		{Num: 1, Raw: "Smith J. A study.", Parsed: types.RefFields{Title: "A study"}},
	}
	sources := []Source{
		failingSource{},
		stubSource{name: "stub", rec: types.CitationRecord{DOI: "10.1/a", Title: "A study"}},
	}

	var log bytes.Buffer
	n, err := EnrichAll(context.Background(), refs, sources, fastCfg(), &log)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if n != 1 {
		t.Errorf("enriched = %d, want 1", n)
	}
	if len(refs[0].Enrichments) != 1 || refs[0].Enrichments[0].Source != "stub" {
		t.Errorf("enrichments = %+v", refs[0].Enrichments)
	}
	// The discovered DOI backfills the entry.
	if refs[0].DOI != "10.1/a" {
		t.Errorf("doi = %q", refs[0].DOI)
	}
	if !strings.Contains(log.String(), "failing lookup failed") {
		t.Errorf("failure not logged: %q", log.String())
	}
}

func TestEnrichAllSkipsCompleteEntries(t *testing.T) {
	complete := types.Reference{
		Num: 1, DOI: "10.1/a",
		Parsed: types.RefFields{
			Authors: []types.Name{{Surname: "Smith"}},
			Title:   "T", Journal: "J", Year: "2020", Volume: "1", FPage: "10",
		},
	}
	refs := []types.Reference{complete}

	n, err := EnrichAll(context.Background(), refs, []Source{failingSource{}}, fastCfg(), nil)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if n != 0 {
		t.Errorf("enriched = %d, want 0", n)
	}
	if len(refs[0].Enrichments) != 0 {
		t.Errorf("complete entry should not be touched: %+v", refs[0].Enrichments)
	}
}
