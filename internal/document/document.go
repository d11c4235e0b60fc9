// Package document defines the structural model of a tutorial document: an
// ordered sequence of blocks (headings, paragraphs, fenced code, blockquotes,
// lists) plus the section view derived from heading positions.
package document

import (
	"strconv"
	"strings"

	"primer/internal/opt"
)

// Document is a parsed Markdown document.
type Document struct {
	Title  string // text of the first level-1 heading, or ""
	Slug   string
	Path   string // source path, "" for in-memory documents
	Blocks []Block

	sections []*Section
	anchors  map[string]*Section
}

// Block is one structural element of a document. Implementations are the
// concrete block types in this package.
type Block interface {
	// Pos returns the 1-based line where the block starts in the source.
	Pos() int
	blockNode()
}

// Heading is an ATX heading. Anchor is assigned by New and unique per document.
type Heading struct {
	Line   int
	Level  int
	Text   string
	Anchor string
}

// Paragraph is a run of prose lines joined into a single text.
type Paragraph struct {
	Line  int
	Text  string
	Links []Link
}

// CodeFence is a fenced code block. Lang is the fence info string when present.
type CodeFence struct {
	Line int
	Lang opt.Option[string]
	Body string
}

// Blockquote is a quoted passage. Attribution is set when the final quoted
// line is an em-dash attribution ("— Tony Hoare").
type Blockquote struct {
	Line        int
	Lines       []string
	Attribution opt.Option[string]
}

// List is an ordered or unordered list of plain items.
type List struct {
	Line    int
	Ordered bool
	Items   []string
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct {
	Line int
}

// ExamplePlaceholder is a paragraph of the exact form "*Name example*": a
// reference to a named example snippet whose body lives outside the document.
type ExamplePlaceholder struct {
	Line int
	Name string
}

// Link is an inline reference extracted from a paragraph or list item.
// Targets starting with '#' reference a section anchor in the same document.
type Link struct {
	Line   int
	Text   string
	Target string
}

func (h Heading) Pos() int            { return h.Line }
func (p Paragraph) Pos() int          { return p.Line }
func (c CodeFence) Pos() int          { return c.Line }
func (b Blockquote) Pos() int         { return b.Line }
func (l List) Pos() int               { return l.Line }
func (t ThematicBreak) Pos() int      { return t.Line }
func (e ExamplePlaceholder) Pos() int { return e.Line }

func (Heading) blockNode()            {}
func (Paragraph) blockNode()          {}
func (CodeFence) blockNode()          {}
func (Blockquote) blockNode()         {}
func (List) blockNode()               {}
func (ThematicBreak) blockNode()      {}
func (ExamplePlaceholder) blockNode() {}

// New assembles a Document from parsed blocks. It derives the title from the
// first level-1 heading, assigns deduplicated anchors to headings, and builds
// the section view.
func New(path string, blocks []Block) *Document {
	d := &Document{Path: path, Blocks: blocks}

	seen := map[string]int{}
	for i, b := range blocks {
		h, ok := b.(Heading)
		if !ok {
			continue
		}
		if h.Level == 1 && d.Title == "" {
			d.Title = h.Text
		}
		h.Anchor = dedupeAnchor(Slugify(h.Text), seen)
		blocks[i] = h
	}
	if d.Title != "" {
		d.Slug = Slugify(d.Title)
	}

	d.buildSections()
	return d
}

// IsInternal reports whether the link targets a section of the same document.
func (l Link) IsInternal() bool { return strings.HasPrefix(l.Target, "#") }

// Links returns every inline link in document order.
func (d *Document) Links() []Link {
	var out []Link
	for _, b := range d.Blocks {
		if p, ok := b.(Paragraph); ok {
			out = append(out, p.Links...)
		}
	}
	return out
}

// Placeholders returns every example placeholder in document order.
func (d *Document) Placeholders() []ExamplePlaceholder {
	var out []ExamplePlaceholder
	for _, b := range d.Blocks {
		if e, ok := b.(ExamplePlaceholder); ok {
			out = append(out, e)
		}
	}
	return out
}

// WordCount counts whitespace-separated words in prose blocks. Code fences
// are excluded.
func (d *Document) WordCount() int {
	total := 0
	for _, b := range d.Blocks {
		total += blockWordCount(b)
	}
	return total
}

func blockWordCount(b Block) int {
	switch v := b.(type) {
	case Heading:
		return len(strings.Fields(v.Text))
	case Paragraph:
		return len(strings.Fields(v.Text))
	case Blockquote:
		n := 0
		for _, l := range v.Lines {
			n += len(strings.Fields(l))
		}
		return n
	case List:
		n := 0
		for _, it := range v.Items {
			n += len(strings.Fields(it))
		}
		return n
	default:
		return 0
	}
}

// Slugify converts heading text to a GitHub-style anchor: lowercased, spaces
// collapsed to hyphens, punctuation dropped.
func Slugify(text string) string {
	var sb strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func dedupeAnchor(base string, seen map[string]int) string {
	if base == "" {
		base = "section"
	}
	n := seen[base]
	seen[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
