// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docx2jats/0.1 (mailto:...)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// articleTypeLabels maps the fixed article-type vocabulary to display labels.
var articleTypeLabels = map[string]string{
	"research-article":  "Original Research Article",
	"review-article":    "Review Article",
	"case-report":       "Case Report",
	"letter":            "Letter to Editor",
	"editorial":         "Editorial",
	"brief-report":      "Brief Report",
	"systematic-review": "Systematic Review",
}

// licenseURLs maps the fixed license vocabulary to canonical URLs.
var licenseURLs = map[string]string{
	"cc-by-4.0":       "https://creativecommons.org/licenses/by/4.0/",
	"cc-by-nc-4.0":    "https://creativecommons.org/licenses/by-nc/4.0/",
	"cc-by-nc-nd-4.0": "https://creativecommons.org/licenses/by-nc-nd/4.0/",
}

// DefaultLicense is used when no license choice is supplied.
const DefaultLicense = "cc-by-nc-4.0"

// JournalMeta holds per-run journal and issue metadata supplied by the
// caller (form fields, CLI flags, or a YAML file). None of it comes from
// the manuscript itself.
type JournalMeta struct {
	Name       string `json:"journal" yaml:"journal"`
	Abbrev     string `json:"abbrev,omitempty" yaml:"abbrev,omitempty"`
	Publisher  string `json:"publisher" yaml:"publisher"`
	JournalURL string `json:"journal_url,omitempty" yaml:"journal_url,omitempty"`
	ISSNPrint  string `json:"issn_print,omitempty" yaml:"issn_print,omitempty"`
	ISSNElec   string `json:"issn_elec,omitempty" yaml:"issn_elec,omitempty"`

	// DOI is the article DOI assigned by the journal.
	DOI    string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Year   string `json:"year" yaml:"year"`
	Month  string `json:"month,omitempty" yaml:"month,omitempty"`
	Day    string `json:"day,omitempty" yaml:"day,omitempty"`
	FPage  string `json:"fpage,omitempty" yaml:"fpage,omitempty"`
	LPage  string `json:"lpage,omitempty" yaml:"lpage,omitempty"`

	// ArticleType is one of the fixed vocabulary keys (research-article,
	// review-article, ...).
	ArticleType string `json:"article_type" yaml:"article_type"`

	// License is one of the fixed license keys (cc-by-4.0, cc-by-nc-4.0,
	// cc-by-nc-nd-4.0).
	License string `json:"license,omitempty" yaml:"license,omitempty"`
}

// ApplyDefaults fills unset fields with the documented defaults.
func (m *JournalMeta) ApplyDefaults() {
	if m.Publisher == "" {
		m.Publisher = "IP Innovative Publication"
	}
	if m.Year == "" {
		m.Year = "2025"
	}
	if m.ArticleType == "" {
		m.ArticleType = "research-article"
	}
	if m.License == "" {
		m.License = DefaultLicense
	}
}

// ArticleTypeLabel returns the display label for the article type. Unknown
// keys fall back to the key itself.
func (m JournalMeta) ArticleTypeLabel() string {
	if label, ok := articleTypeLabels[m.ArticleType]; ok {
		return label
	}
	return m.ArticleType
}

// LicenseURL returns the canonical license URL for the license choice.
// Unknown keys fall back to the default license URL.
func (m JournalMeta) LicenseURL() string {
	if u, ok := licenseURLs[m.License]; ok {
		return u
	}
	return licenseURLs[DefaultLicense]
}

// EnrichmentConfig holds settings for the bibliographic enrichment stage.
type EnrichmentConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled turns registry lookups on. When false the pipeline runs with
	// parsed metadata only.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Email is sent to registries that offer a polite pool (mailto param).
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// InterCallDelay is the pause between consecutive registry calls, the
	// only intentional throttling in the pipeline (default 1s).
	InterCallDelay time.Duration `json:"inter_call_delay" yaml:"inter_call_delay"`
}

// ServerConfig holds settings for the HTTP transport adapter.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes caps the uploaded file size (default 20 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// HistoryDB is an optional path to the sqlite conversion log.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`

	Enrichment EnrichmentConfig `json:"enrichment" yaml:"enrichment"`
}
