// Package compose assembles a handbook from chapter sources: it parses each
// chapter, resolves example placeholders against the snippet registry, and
// stitches the chapters into a single document under the book title.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Book describes a handbook build: the title, chapter sources in reading
// order, the snippet directory, and the output file. Paths are relative to
// the book file's directory.
type Book struct {
	Title    string   `yaml:"title"`
	Output   string   `yaml:"output"`
	Snippets string   `yaml:"snippets"`
	Chapters []string `yaml:"chapters"`

	// Dir is the directory of the book file, set by LoadBook.
	Dir string `yaml:"-"`
}

// LoadBook reads and validates a book file.
func LoadBook(path string) (*Book, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read book file: %w", err)
	}

	var book Book
	if err := yaml.Unmarshal(raw, &book); err != nil {
		return nil, fmt.Errorf("parse book file %s: %w", path, err)
	}

	if book.Title == "" {
		return nil, fmt.Errorf("book file %s: title is required", path)
	}
	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("book file %s: at least one chapter is required", path)
	}
	if book.Output == "" {
		book.Output = "handbook.md"
	}

	book.Dir = filepath.Dir(path)
	return &book, nil
}

// ChapterPaths returns the chapter source paths resolved against Dir.
func (b *Book) ChapterPaths() []string {
	out := make([]string, len(b.Chapters))
	for i, c := range b.Chapters {
		out[i] = filepath.Join(b.Dir, c)
	}
	return out
}

// SnippetsDir returns the snippet directory resolved against Dir, or ""
// when the book declares none.
func (b *Book) SnippetsDir() string {
	if b.Snippets == "" {
		return ""
	}
	return filepath.Join(b.Dir, b.Snippets)
}

// OutputPath returns the output file resolved against Dir.
func (b *Book) OutputPath() string {
	return filepath.Join(b.Dir, b.Output)
}
