// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversion pipeline over HTTP. The transport
// is a thin adapter: it validates the upload, stages it to a temp file,
// runs the pipeline, and streams the JATS document back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/docx2jats/internal/convert"
	"github.com/pdiddy/docx2jats/internal/store"
	"github.com/pdiddy/docx2jats/pkg/types"
)

const defaultMaxUploadBytes = 20 << 20

// Server handles conversion requests.
type Server struct {
	cfg   types.ServerConfig
	store *store.Store
	log   io.Writer

	// Version is reported by the health endpoint.
	Version string
}

// New creates a server. st may be nil when no conversion log is
// configured; logw receives operational messages (nil discards them).
func New(cfg types.ServerConfig, st *store.Store, logw io.Writer) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if logw == nil {
		logw = io.Discard
	}
	return &Server{cfg: cfg, store: st, log: logw}
}

// Handler returns the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/api/convert", s.handleConvert)
	return r
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(s.log, "listening on %s\n", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version := s.Version
	if version == "" {
		version = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// handleConvert accepts a multipart upload ("file" field) plus journal
// metadata form fields and responds with the JATS document as an
// attachment. Conversion counters travel in the X-Stats header.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".docx") {
		writeError(w, http.StatusBadRequest, "only .docx files are accepted")
		return
	}

	// Stage to a temp file so the archive reader gets a stable ReaderAt.
	tmp, err := os.CreateTemp("", "docx2jats-*.docx")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "staging upload failed")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "staging upload failed")
		return
	}

	opts := convert.Options{
		Journal:    journalMetaFromForm(r),
		Enrichment: s.cfg.Enrichment,
		Progress:   s.log,
	}
	if v := r.FormValue("enrich"); v != "" {
		opts.Enrichment.Enabled = v == "true" || v == "1"
	}

	start := time.Now()
	res, err := convert.Run(r.Context(), tmp, size, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("conversion failed: %v", err))
		return
	}

	s.logConversion(r.Context(), header.Filename, opts, res, time.Since(start))

	stats, _ := json.Marshal(res.Summary)
	stem := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xml"`, stem))
	w.Header().Set("X-Stats", string(stats))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, res.XML)
}

// logConversion appends to the conversion log when one is attached. A
// logging failure never fails the request.
func (s *Server) logConversion(ctx context.Context, filename string, opts convert.Options, res *convert.Result, elapsed time.Duration) {
	if s.store == nil {
		return
	}
	_, err := s.store.Log(ctx, store.Record{
		Filename: filename,
		Journal:  opts.Journal.Name,
		Title:    res.Article.Title,
		Summary:  res.Summary,
		Enriched: opts.Enrichment.Enabled,
		Duration: elapsed,
	})
	if err != nil {
		fmt.Fprintf(s.log, "warning: conversion log write failed: %v\n", err)
	}
}

// journalMetaFromForm reads journal metadata from form fields. Absent
// fields fall back to the documented defaults downstream.
func journalMetaFromForm(r *http.Request) types.JournalMeta {
	return types.JournalMeta{
		Name:        r.FormValue("journal"),
		Abbrev:      r.FormValue("abbrev"),
		Publisher:   r.FormValue("publisher"),
		JournalURL:  r.FormValue("journal_url"),
		ISSNPrint:   r.FormValue("issn_print"),
		ISSNElec:    r.FormValue("issn_elec"),
		DOI:         r.FormValue("doi"),
		Volume:      r.FormValue("volume"),
		Issue:       r.FormValue("issue"),
		Year:        r.FormValue("year"),
		Month:       r.FormValue("month"),
		Day:         r.FormValue("day"),
		FPage:       r.FormValue("fpage"),
		LPage:       r.FormValue("lpage"),
		ArticleType: r.FormValue("article_type"),
		License:     r.FormValue("license"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
