package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"primer/internal/opt"
)

// Section is the flat view used for indexing and linting: a heading plus
// every block up to the next heading of any level. A tree structure is
// better for representation, but a flat list is better for search and for
// per-section checks, so both are kept (Children carries the nesting).
type Section struct {
	ID       string // stable hash of path + anchor
	Heading  Heading
	Blocks   []Block // blocks after the heading, heading excluded
	Children []*Section
}

// Anchor returns the section's heading anchor.
func (s *Section) Anchor() string { return s.Heading.Anchor }

// Title returns the section's heading text.
func (s *Section) Title() string { return s.Heading.Text }

// Level returns the section's heading level.
func (s *Section) Level() int { return s.Heading.Level }

// WordCount counts prose words in the section's own blocks.
func (s *Section) WordCount() int {
	n := len(strings.Fields(s.Heading.Text))
	for _, b := range s.Blocks {
		n += blockWordCount(b)
	}
	return n
}

// Sections returns the flat section list in document order. Blocks before
// the first heading belong to a synthetic "preamble" section with level 0.
func (d *Document) Sections() []*Section {
	return d.sections
}

// SectionByAnchor looks up a section by its heading anchor.
func (d *Document) SectionByAnchor(anchor string) opt.Option[*Section] {
	if s, ok := d.anchors[anchor]; ok {
		return opt.Some(s)
	}
	return opt.None[*Section]()
}

func (d *Document) buildSections() {
	d.anchors = map[string]*Section{}
	d.sections = nil

	var current *Section
	for _, b := range d.Blocks {
		if h, ok := b.(Heading); ok {
			current = &Section{Heading: h}
			current.ID = sectionID(d.Path, h.Anchor)
			d.sections = append(d.sections, current)
			d.anchors[h.Anchor] = current
			continue
		}
		if current == nil {
			current = &Section{Heading: Heading{Level: 0, Text: "Preamble", Anchor: "preamble"}}
			current.ID = sectionID(d.Path, "preamble")
			d.sections = append(d.sections, current)
			d.anchors["preamble"] = current
		}
		current.Blocks = append(current.Blocks, b)
	}

	linkChildren(d.sections)
}

// linkChildren wires the Children pointers: a section is a child of the
// nearest preceding section with a smaller level.
func linkChildren(sections []*Section) {
	var stack []*Section
	for _, s := range sections {
		for len(stack) > 0 && stack[len(stack)-1].Level() >= s.Level() {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, s)
		}
		stack = append(stack, s)
	}
}

func sectionID(path, anchor string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", path, anchor)))
	return hex.EncodeToString(sum[:])[:16]
}
