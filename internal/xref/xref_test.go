package xref

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primer/internal/document"
	"primer/internal/markdown"
	"primer/internal/snippet"
)

func parseDoc(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, defects := markdown.Parse("x.md", []byte(src))
	require.Empty(t, defects)
	return doc
}

func loadRegistry(t *testing.T, names ...string) *snippet.Registry {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".go"), []byte("package examples\n"), 0644))
	}
	reg, err := snippet.Load(dir)
	require.NoError(t, err)
	return reg
}

const xrefDoc = `# Guide

The option container is introduced below, see [options](#options).

## Options

An option has two shapes.

*Option example*

## Orphans

This links to a [ghost](#nowhere).

*Ghost example*
`

func TestGraph_DanglingReferences(t *testing.T) {
	g := NewGraph()
	g.AddRegistry(loadRegistry(t, "option"))
	g.AddDocument(parseDoc(t, xrefDoc))

	dangling := g.Dangling()
	require.Len(t, dangling, 2)

	// Ordered by line: the ghost link comes before the ghost placeholder.
	assert.Equal(t, EdgeLink, dangling[0].Kind)
	assert.Equal(t, SectionID("nowhere"), dangling[0].To)
	assert.Equal(t, EdgeExample, dangling[1].Kind)
	assert.Equal(t, SnippetID("Ghost"), dangling[1].To)
}

func TestGraph_Dependents(t *testing.T) {
	g := NewGraph()
	g.AddRegistry(loadRegistry(t, "option", "unused"))
	g.AddDocument(parseDoc(t, xrefDoc))

	deps := g.Dependents(SnippetID("option"))
	assert.Equal(t, []string{SectionID("options")}, deps)

	assert.Empty(t, g.Dependents(SnippetID("unused")))
}

func TestGraph_InternalLinkResolves(t *testing.T) {
	g := NewGraph()
	g.AddRegistry(loadRegistry(t, "option", "ghost"))
	g.AddDocument(parseDoc(t, xrefDoc))

	for _, e := range g.Dangling() {
		assert.NotEqual(t, SectionID("options"), e.To, "resolvable link reported dangling")
	}

	deps := g.Dependents(SectionID("options"))
	assert.Equal(t, []string{SectionID("guide")}, deps)
}
