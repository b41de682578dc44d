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

// openAlexAPIBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexSource queries the OpenAlex API. OpenAlex is DOI-centric: a DOI
// on the entry resolves directly; otherwise the title is searched and the
// top hit accepted only when its year agrees.
type OpenAlexSource struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

func (s *OpenAlexSource) Name() string { return "openalex" }

func (s *OpenAlexSource) Lookup(ctx context.Context, ref types.Reference, cfg types.EnrichmentConfig) (*types.CitationRecord, error) {
	if ref.DOI != "" {
		u := openAlexAPIBase + "/https://doi.org/" + ref.DOI
		if s.Email != "" {
			u += "?mailto=" + url.QueryEscape(s.Email)
		}
		var work openAlexWork
		if err := httputil.GetJSON(ctx, s.Client, u, cfg.UserAgent, &work); err != nil {
			return nil, fmt.Errorf("OpenAlex DOI lookup: %w", err)
		}
		return openAlexRecord(work), nil
	}

	if ref.Parsed.Title == "" {
		return nil, nil
	}

	params := url.Values{
		"filter":   {"title.search:" + ref.Parsed.Title},
		"per_page": {"1"},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var oar openAlexListResponse
	if err := httputil.GetJSON(ctx, s.Client, openAlexAPIBase+"?"+params.Encode(), cfg.UserAgent, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex search: %w", err)
	}
	if len(oar.Results) == 0 {
		return nil, nil
	}

	rec := openAlexRecord(oar.Results[0])
	if rec != nil && ref.Parsed.Year != "" && rec.Year != "" && rec.Year != ref.Parsed.Year {
		return nil, nil
	}
	return rec, nil
}

// openAlexRecord maps one OpenAlex work to the normalized record shape.
func openAlexRecord(w openAlexWork) *types.CitationRecord {
	rec := &types.CitationRecord{
		DOI:     strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Title:   w.Title,
		Volume:  w.Biblio.Volume,
		Issue:   w.Biblio.Issue,
		FPage:   w.Biblio.FirstPage,
		LPage:   w.Biblio.LastPage,
		Journal: w.PrimaryLocation.Source.DisplayName,
	}
	if w.PublicationYear > 0 {
		rec.Year = fmt.Sprintf("%d", w.PublicationYear)
	}
	for _, as := range w.Authorships {
		name := splitDisplayName(as.Author.DisplayName)
		if name.Surname == "" {
			continue
		}
		name.ORCID = strings.TrimPrefix(as.Author.ORCID, "https://orcid.org/")
		rec.Authors = append(rec.Authors, name)
	}
	if rec.DOI == "" && rec.Title == "" {
		return nil
	}
	return rec
}

// splitDisplayName splits an OpenAlex display name ("Jane Q. Smith") into
// given names and surname on the last space.
func splitDisplayName(display string) types.Name {
	display = strings.TrimSpace(display)
	if display == "" {
		return types.Name{}
	}
	idx := strings.LastIndex(display, " ")
	if idx < 0 {
		return types.Name{Surname: display}
	}
	return types.Name{Surname: display[idx+1:], Given: display[:idx]}
}

// OpenAlex API JSON structures.
type openAlexListResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	Title           string               `json:"title"`
	DOI             string               `json:"doi"`
	PublicationYear int                  `json:"publication_year"`
	Biblio          openAlexBiblio       `json:"biblio"`
	PrimaryLocation openAlexLocation     `json:"primary_location"`
	Authorships     []openAlexAuthorship `json:"authorships"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

type openAlexLocation struct {
	Source openAlexVenue `json:"source"`
}

type openAlexVenue struct {
	DisplayName string `json:"display_name"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}
