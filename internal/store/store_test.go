package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primer/internal/markdown"
)

const storedDoc = `# Safer Values

Introductory prose about containers.

## Optional Values

An option is present or empty, nothing else.

## Results

A result carries a value or an error to the caller.
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveSample(t *testing.T, s *Store) {
	t.Helper()
	doc, defects := markdown.Parse("guide.md", []byte(storedDoc))
	require.Empty(t, defects)
	require.NoError(t, s.SaveDocument(context.Background(), doc, "run-1", time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)))
}

func TestSaveAndGetDocument(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s)

	info, err := s.GetDocument(context.Background(), "safer-values")
	require.NoError(t, err)
	assert.Equal(t, "Safer Values", info.Title)
	assert.Equal(t, "run-1", info.RunID)
	assert.Equal(t, 2026, info.BuiltAt.Year())
	assert.Greater(t, info.WordCount, 0)
}

func TestGetDocument_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetDocument(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDocument_ReplacesSections(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s)

	// Save a smaller revision under the same slug.
	doc, _ := markdown.Parse("guide.md", []byte("# Safer Values\n\nOnly prose now.\n"))
	require.NoError(t, s.SaveDocument(context.Background(), doc, "run-2", time.Now()))

	hits, err := s.SearchSections(context.Background(), "option", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "sections of the old revision should be gone")

	info, err := s.GetDocument(context.Background(), "safer-values")
	require.NoError(t, err)
	assert.Equal(t, "run-2", info.RunID)
}

func TestSaveDocument_RequiresSlug(t *testing.T) {
	s := newTestStore(t)
	doc, _ := markdown.Parse("x.md", []byte("no heading at all\n"))
	err := s.SaveDocument(context.Background(), doc, "run", time.Now())
	assert.Error(t, err)
}

func TestSearchSections_TitleHitsRankFirst(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s)

	hits, err := s.SearchSections(context.Background(), "option", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, "Optional Values", hits[0].Title)
	assert.True(t, hits[0].TitleHit)
	assert.Equal(t, "optional-values", hits[0].Anchor)
	assert.NotEmpty(t, hits[0].Excerpt)
}

func TestSearchSections_ContentMatch(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s)

	hits, err := s.SearchSections(context.Background(), "caller", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Results", hits[0].Title)
	assert.Contains(t, hits[0].Excerpt, "caller")
}

func TestSearchSections_NoMatch(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s)

	hits, err := s.SearchSections(context.Background(), "zeppelin", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestListDocuments(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s)

	docs, err := s.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "safer-values", docs[0].Slug)
}
