// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/docx2jats/internal/httputil"
	"github.com/pdiddy/docx2jats/pkg/types"
)

// crossrefAPIBase is the CrossRef Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossrefSource queries the CrossRef REST API. A DOI on the entry is
// looked up directly; otherwise a bibliographic query built from the
// parsed fields is tried and the top hit accepted only when its year
// agrees.
type CrossrefSource struct {
	Client *http.Client
	// Email is appended to mailto for polite pool access.
	Email string
}

func (s *CrossrefSource) Name() string { return "crossref" }

func (s *CrossrefSource) Lookup(ctx context.Context, ref types.Reference, cfg types.EnrichmentConfig) (*types.CitationRecord, error) {
	if ref.DOI != "" {
		return s.byDOI(ctx, ref.DOI, cfg)
	}
	return s.byQuery(ctx, ref, cfg)
}

func (s *CrossrefSource) byDOI(ctx context.Context, doi string, cfg types.EnrichmentConfig) (*types.CitationRecord, error) {
	u := crossrefAPIBase + "/" + url.PathEscape(doi)
	if s.Email != "" {
		u += "?mailto=" + url.QueryEscape(s.Email)
	}

	var cr crossrefResponse
	if err := httputil.GetJSON(ctx, s.Client, u, cfg.UserAgent, &cr); err != nil {
		return nil, fmt.Errorf("CrossRef DOI lookup: %w", err)
	}
	return crossrefRecord(cr.Message), nil
}

func (s *CrossrefSource) byQuery(ctx context.Context, ref types.Reference, cfg types.EnrichmentConfig) (*types.CitationRecord, error) {
	query := buildBibliographicQuery(ref.Parsed)
	if query == "" {
		return nil, nil
	}

	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {"1"},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var cr crossrefListResponse
	if err := httputil.GetJSON(ctx, s.Client, crossrefAPIBase+"?"+params.Encode(), cfg.UserAgent, &cr); err != nil {
		return nil, fmt.Errorf("CrossRef query: %w", err)
	}
	if len(cr.Message.Items) == 0 {
		return nil, nil
	}

	item := cr.Message.Items[0]
	rec := crossrefRecord(item)

	// A query hit without a year match is too risky to attach.
	if ref.Parsed.Year != "" && rec.Year != "" && rec.Year != ref.Parsed.Year {
		return nil, nil
	}
	return rec, nil
}

// buildBibliographicQuery combines the first author surname, title, and
// year into a free-text query.
func buildBibliographicQuery(f types.RefFields) string {
	var parts []string
	if len(f.Authors) > 0 {
		parts = append(parts, f.Authors[0].Surname)
	}
	if f.Title != "" {
		parts = append(parts, f.Title)
	}
	if f.Year != "" {
		parts = append(parts, f.Year)
	}
	return strings.Join(parts, " ")
}

// crossrefRecord maps one CrossRef work to the normalized record shape.
func crossrefRecord(w crossrefWork) *types.CitationRecord {
	rec := &types.CitationRecord{
		DOI:    w.DOI,
		Volume: w.Volume,
		Issue:  w.Issue,
	}
	if len(w.Title) > 0 {
		rec.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		rec.Journal = w.ContainerTitle[0]
	}
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		rec.Year = fmt.Sprintf("%d", w.Issued.DateParts[0][0])
	}
	if w.Page != "" {
		pages := strings.SplitN(w.Page, "-", 2)
		rec.FPage = strings.TrimSpace(pages[0])
		if len(pages) == 2 {
			rec.LPage = strings.TrimSpace(pages[1])
		}
	}
	for _, a := range w.Author {
		if a.Family == "" {
			continue
		}
		rec.Authors = append(rec.Authors, types.Name{
			Surname: a.Family,
			Given:   a.Given,
			ORCID:   strings.TrimPrefix(a.ORCID, "http://orcid.org/"),
		})
	}
	if rec.DOI == "" && rec.Title == "" {
		return nil
	}
	return rec
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefListResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	ContainerTitle []string         `json:"container-title"`
	Volume         string           `json:"volume"`
	Issue          string           `json:"issue"`
	Page           string           `json:"page"`
	Issued         crossrefIssued   `json:"issued"`
	Author         []crossrefAuthor `json:"author"`
}

type crossrefIssued struct {
	DateParts [][]int `json:"date-parts"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}
