package compose

import (
	"bytes"
	"fmt"
	"os"

	"github.com/adrg/frontmatter"

	"primer/internal/document"
	"primer/internal/markdown"
	"primer/internal/opt"
)

// ChapterMeta is the YAML frontmatter of a chapter source.
type ChapterMeta struct {
	Title   string `yaml:"title"`
	Slug    string `yaml:"slug"`
	Summary string `yaml:"summary"`
	Draft   bool   `yaml:"draft"`
}

// Chapter is a parsed chapter source.
type Chapter struct {
	Meta    ChapterMeta
	Path    string
	Doc     *document.Document
	Defects []markdown.Defect
}

// Slug returns the chapter's slug, derived from the title when the
// frontmatter does not set one.
func (c *Chapter) Slug() string {
	if c.Meta.Slug != "" {
		return c.Meta.Slug
	}
	return document.Slugify(c.Meta.Title)
}

// LoadChapter reads a chapter source, splits the frontmatter, and parses
// the Markdown body.
func LoadChapter(path string) (*Chapter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chapter: %w", err)
	}

	var meta ChapterMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter of %s: %w", path, err)
	}

	doc, defects := markdown.Parse(path, body)
	if meta.Title == "" {
		meta.Title = doc.Title
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("chapter %s: no title in frontmatter or heading", path)
	}

	return &Chapter{Meta: meta, Path: path, Doc: doc, Defects: defects}, nil
}

// LoadChapters loads every path, collecting one result per chapter so a
// broken chapter does not abort the batch.
func LoadChapters(paths []string) []opt.Result[*Chapter] {
	results := make([]opt.Result[*Chapter], len(paths))
	for i, path := range paths {
		ch, err := LoadChapter(path)
		if err != nil {
			results[i] = opt.Err[*Chapter](err)
			continue
		}
		results[i] = opt.Ok(ch)
	}
	return results
}
