// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docx2jats/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.Log(ctx, Record{
		Filename: "paper1.docx",
		Journal:  "Test J",
		Title:    "A study",
		Summary:  types.Summary{Authors: 2, References: 10, OutputBytes: 4096},
		Enriched: true,
		Duration: 1500 * time.Millisecond,
	})
	require.NoError(t, err)

	id2, err := s.Log(ctx, Record{Filename: "paper2.docx"})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "paper2.docx", records[0].Filename)
	assert.Equal(t, "paper1.docx", records[1].Filename)
	assert.Equal(t, 10, records[1].Summary.References)
	assert.Equal(t, 4096, records[1].Summary.OutputBytes)
	assert.True(t, records[1].Enriched)
	assert.Equal(t, 1500*time.Millisecond, records[1].Duration)
	assert.False(t, records[1].CreatedAt.IsZero())
}

func TestListLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Log(ctx, Record{Filename: "f.docx"})
		require.NoError(t, err)
	}

	records, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Log(context.Background(), Record{Filename: "x.docx"})
	assert.NoError(t, err)
}
