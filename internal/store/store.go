// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists a log of conversion runs in SQLite. The log is
// optional: the pipeline works without it, the server and CLI attach it
// when a database path is configured.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docx2jats/pkg/types"
)

// Record is one logged conversion run.
type Record struct {
	ID       int64         `json:"id" yaml:"id"`
	Filename string        `json:"filename" yaml:"filename"`
	Journal  string        `json:"journal,omitempty" yaml:"journal,omitempty"`
	Title    string        `json:"title,omitempty" yaml:"title,omitempty"`
	Summary  types.Summary `json:"summary" yaml:"summary"`

	// Enriched records whether registry enrichment ran for this conversion.
	Enriched bool `json:"enriched" yaml:"enriched"`

	// Duration is the wall-clock time of the pipeline run.
	Duration time.Duration `json:"duration" yaml:"duration"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the conversion log SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the conversion log at dbPath, creating parent
// directories and the schema as needed.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			journal TEXT,
			title TEXT,
			authors INTEGER,
			affiliations INTEGER,
			sections INTEGER,
			refs INTEGER,
			tables_count INTEGER,
			figures INTEGER,
			output_bytes INTEGER,
			enriched INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Log appends one conversion record and returns its assigned id.
func (s *Store) Log(ctx context.Context, rec Record) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
			(filename, journal, title, authors, affiliations, sections, refs, tables_count, figures, output_bytes, enriched, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Filename, rec.Journal, rec.Title,
		rec.Summary.Authors, rec.Summary.Affiliations, rec.Summary.Sections,
		rec.Summary.References, rec.Summary.Tables, rec.Summary.Figures,
		rec.Summary.OutputBytes, rec.Enriched, rec.Duration.Milliseconds(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting conversion record: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent records, newest first. A limit of 0 uses
// the default of 50.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, journal, title, authors, affiliations, sections, refs, tables_count, figures, output_bytes, enriched, duration_ms, created_at
		 FROM conversions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		var durationMS int64
		if err := rows.Scan(
			&rec.ID, &rec.Filename, &rec.Journal, &rec.Title,
			&rec.Summary.Authors, &rec.Summary.Affiliations, &rec.Summary.Sections,
			&rec.Summary.References, &rec.Summary.Tables, &rec.Summary.Figures,
			&rec.Summary.OutputBytes, &rec.Enriched, &durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning conversion record: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
