// Package store persists built documents and their sections in SQLite so
// the search command can query them without re-parsing sources.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"primer/internal/document"
	"primer/internal/markdown"
)

// ErrNotFound is returned when a document slug is not in the store.
var ErrNotFound = errors.New("document not found")

// DocumentInfo is the stored metadata of a built document.
type DocumentInfo struct {
	Slug      string
	Title     string
	Path      string
	RunID     string
	BuiltAt   time.Time
	WordCount int
}

// SectionHit is one search result.
type SectionHit struct {
	DocSlug   string
	Anchor    string
	Title     string
	Level     int
	Excerpt   string
	WordCount int
	TitleHit  bool
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates or opens the store at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			slug TEXT PRIMARY KEY,
			title TEXT,
			path TEXT,
			run_id TEXT,
			built_at TEXT,
			word_count INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			doc_slug TEXT,
			anchor TEXT,
			title TEXT,
			level INTEGER,
			content TEXT,
			word_count INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_doc ON sections(doc_slug);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument upserts the document and replaces its sections in one
// transaction.
func (s *Store) SaveDocument(ctx context.Context, doc *document.Document, runID string, builtAt time.Time) error {
	if doc.Slug == "" {
		return fmt.Errorf("document %s has no slug", doc.Path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (slug, title, path, run_id, built_at, word_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title=excluded.title,
			path=excluded.path,
			run_id=excluded.run_id,
			built_at=excluded.built_at,
			word_count=excluded.word_count
	`, doc.Slug, doc.Title, doc.Path, runID, builtAt.Format(time.RFC3339), doc.WordCount())
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE doc_slug = ?`, doc.Slug); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (id, doc_slug, anchor, title, level, content, word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sec := range doc.Sections() {
		content := markdown.WriteBlocks(sec.Blocks)
		if _, err := stmt.ExecContext(ctx, sec.ID, doc.Slug, sec.Anchor(), sec.Title(), sec.Level(), content, sec.WordCount()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDocument retrieves a stored document's metadata by slug.
func (s *Store) GetDocument(ctx context.Context, slug string) (*DocumentInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT slug, title, path, run_id, built_at, word_count FROM documents WHERE slug = ?`, slug)

	var info DocumentInfo
	var builtAt string
	if err := row.Scan(&info.Slug, &info.Title, &info.Path, &info.RunID, &builtAt, &info.WordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info.BuiltAt, _ = time.Parse(time.RFC3339, builtAt)
	return &info, nil
}

// ListDocuments returns metadata for every stored document, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, title, path, run_id, built_at, word_count FROM documents ORDER BY built_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var builtAt string
		if err := rows.Scan(&info.Slug, &info.Title, &info.Path, &info.RunID, &builtAt, &info.WordCount); err != nil {
			return nil, err
		}
		info.BuiltAt, _ = time.Parse(time.RFC3339, builtAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// SearchSections finds sections whose title or content contains the query,
// case-insensitively. Title hits rank before content hits, longer sections
// after shorter ones within each group.
func (s *Store) SearchSections(ctx context.Context, query string, limit int) ([]SectionHit, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_slug, anchor, title, level, content, word_count,
			CASE WHEN lower(title) LIKE ? THEN 1 ELSE 0 END AS title_hit
		FROM sections
		WHERE lower(title) LIKE ? OR lower(content) LIKE ?
		ORDER BY title_hit DESC, word_count ASC
		LIMIT ?
	`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SectionHit
	for rows.Next() {
		var hit SectionHit
		var content string
		var titleHit int
		if err := rows.Scan(&hit.DocSlug, &hit.Anchor, &hit.Title, &hit.Level, &content, &hit.WordCount, &titleHit); err != nil {
			return nil, err
		}
		hit.TitleHit = titleHit == 1
		hit.Excerpt = excerpt(content, query)
		out = append(out, hit)
	}
	return out, rows.Err()
}

// excerpt returns a short window of content around the first query match.
func excerpt(content, query string) string {
	content = strings.Join(strings.Fields(content), " ")
	lower := strings.ToLower(content)
	idx := strings.Index(lower, strings.ToLower(strings.TrimSpace(query)))
	if idx < 0 {
		idx = 0
	}
	start := idx - 40
	if start < 0 {
		start = 0
	}
	end := idx + 120
	if end > len(content) {
		end = len(content)
	}
	out := content[start:end]
	if start > 0 {
		out = "…" + out
	}
	if end < len(content) {
		out += "…"
	}
	return out
}
