package compose

import (
	"time"

	"github.com/google/uuid"

	"primer/internal/document"
	"primer/internal/markdown"
	"primer/internal/opt"
	"primer/internal/snippet"
)

// ChapterStats summarizes one chapter's contribution to a build.
type ChapterStats struct {
	Slug       string
	Title      string
	Words      int
	Resolved   int // placeholders replaced by snippet bodies
	Unresolved int // placeholders kept as named references
	Skipped    bool
}

// BuildResult is the outcome of composing a book.
type BuildResult struct {
	RunID    string
	BuiltAt  time.Time
	Doc      *document.Document
	Markdown string
	Chapters []ChapterStats
}

// Composer stitches chapters into a handbook document.
type Composer struct {
	registry *snippet.Registry
}

// NewComposer creates a composer backed by the given snippet registry.
func NewComposer(reg *snippet.Registry) *Composer {
	return &Composer{registry: reg}
}

// Compose builds the handbook document. Draft chapters are skipped; chapter
// headings are demoted one level so the book title remains the only H1;
// placeholders with a registered snippet become concrete code fences, the
// rest stay named references.
func (c *Composer) Compose(book *Book, chapters []*Chapter) *BuildResult {
	result := &BuildResult{
		RunID:   uuid.New().String(),
		BuiltAt: time.Now().UTC(),
	}

	blocks := []document.Block{
		document.Heading{Line: 1, Level: 1, Text: book.Title},
	}

	for _, ch := range chapters {
		stats := ChapterStats{Slug: ch.Slug(), Title: ch.Meta.Title}
		if ch.Meta.Draft {
			stats.Skipped = true
			result.Chapters = append(result.Chapters, stats)
			continue
		}

		chBlocks, resolved, unresolved := c.chapterBlocks(ch)
		blocks = append(blocks, chBlocks...)
		stats.Resolved = resolved
		stats.Unresolved = unresolved
		stats.Words = ch.Doc.WordCount()
		result.Chapters = append(result.Chapters, stats)
	}

	result.Doc = document.New(book.OutputPath(), blocks)
	result.Markdown = markdown.Write(result.Doc)
	return result
}

// chapterBlocks demotes headings, injects the chapter heading when the
// source starts without one, and resolves placeholders.
func (c *Composer) chapterBlocks(ch *Chapter) (blocks []document.Block, resolved, unresolved int) {
	startsWithHeading := false
	if len(ch.Doc.Blocks) > 0 {
		if h, ok := ch.Doc.Blocks[0].(document.Heading); ok && h.Level == 1 {
			startsWithHeading = true
		}
	}
	if !startsWithHeading {
		blocks = append(blocks, document.Heading{Line: 1, Level: 2, Text: ch.Meta.Title})
	}

	for _, b := range ch.Doc.Blocks {
		switch v := b.(type) {
		case document.Heading:
			v.Level++
			if v.Level > 6 {
				v.Level = 6
			}
			v.Anchor = ""
			blocks = append(blocks, v)
		case document.ExamplePlaceholder:
			if snip, ok := c.registry.Resolve(v.Name).Unwrap(); ok {
				blocks = append(blocks, document.CodeFence{
					Line: v.Line,
					Lang: opt.Some(snip.Lang),
					Body: snip.Body,
				})
				resolved++
				continue
			}
			blocks = append(blocks, v)
			unresolved++
		default:
			blocks = append(blocks, b)
		}
	}
	return blocks, resolved, unresolved
}
