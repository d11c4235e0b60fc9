// Package xref builds the reference graph of a document set: sections and
// snippets are nodes, internal links and example placeholders are edges.
// The linter asks it for dangling references and the watch rebuild asks it
// which chapters depend on a changed snippet.
package xref

import (
	"sort"
	"strings"

	"primer/internal/document"
	"primer/internal/snippet"
)

// Node kinds.
const (
	KindSection = "section"
	KindSnippet = "snippet"
)

// Edge kinds.
const (
	EdgeLink    = "link"
	EdgeExample = "example"
)

// Node is a referenceable entity.
type Node struct {
	ID    string // "sec:<anchor>" or "snip:<name>"
	Kind  string
	Title string
}

// Edge is a directed reference between two nodes. To may name a node that
// does not exist; such edges are reported by Dangling.
type Edge struct {
	From string
	To   string
	Kind string
	Line int
}

// Graph manages nodes and their references.
type Graph struct {
	Nodes map[string]*Node
	Edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: map[string]*Node{}}
}

// SectionID and SnippetID build node identifiers.
func SectionID(anchor string) string { return "sec:" + anchor }
func SnippetID(name string) string   { return "snip:" + document.Slugify(name) }

// AddDocument registers a document's sections and their outgoing references.
func (g *Graph) AddDocument(doc *document.Document) {
	for _, sec := range doc.Sections() {
		g.Nodes[SectionID(sec.Anchor())] = &Node{
			ID:    SectionID(sec.Anchor()),
			Kind:  KindSection,
			Title: sec.Title(),
		}
	}

	for _, sec := range doc.Sections() {
		from := SectionID(sec.Anchor())
		for _, b := range sec.Blocks {
			switch v := b.(type) {
			case document.Paragraph:
				for _, link := range v.Links {
					if link.IsInternal() {
						g.Edges = append(g.Edges, Edge{
							From: from,
							To:   SectionID(strings.TrimPrefix(link.Target, "#")),
							Kind: EdgeLink,
							Line: link.Line,
						})
					}
				}
			case document.ExamplePlaceholder:
				g.Edges = append(g.Edges, Edge{
					From: from,
					To:   SnippetID(v.Name),
					Kind: EdgeExample,
					Line: v.Line,
				})
			}
		}
	}
}

// AddRegistry registers every snippet in the registry as a node.
func (g *Graph) AddRegistry(reg *snippet.Registry) {
	for _, name := range reg.Names() {
		g.Nodes[SnippetID(name)] = &Node{ID: SnippetID(name), Kind: KindSnippet, Title: name}
	}
}

// Dangling returns edges whose target node is not registered, ordered by line.
func (g *Graph) Dangling() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.To]; !ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// Dependents returns the IDs of nodes with an edge into the given node,
// deduplicated and sorted. Used to find sections that must be rebuilt when
// a snippet changes.
func (g *Graph) Dependents(id string) []string {
	seen := map[string]bool{}
	for _, e := range g.Edges {
		if e.To == id {
			seen[e.From] = true
		}
	}
	out := make([]string, 0, len(seen))
	for from := range seen {
		out = append(out, from)
	}
	sort.Strings(out)
	return out
}
