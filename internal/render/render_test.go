package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primer/internal/markdown"
)

const renderSrc = `# Safer Values

Prose with a [link](#optional-values).

## Optional Values

> Absence is a value too.
> — Somebody

` + "```go\nx := 1\n```\n"

func TestHTMLFragment(t *testing.T) {
	out, err := HTMLFragment([]byte(renderSrc))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, `id="optional-values"`)
	assert.Contains(t, html, "<blockquote>")
	assert.Contains(t, html, "language-go")
}

func TestHTMLPage_EscapesTitle(t *testing.T) {
	out, err := HTMLPage("Tips & <Tricks>", []byte("# T\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<title>Tips &amp; &lt;Tricks&gt;</title>")
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "</html>")
}

func TestTerminal_RendersEveryBlockKind(t *testing.T) {
	src := renderSrc + "\n---\n\n- first\n- second\n\n*Option example*\n"
	doc, defects := markdown.Parse("x.md", []byte(src))
	require.Empty(t, defects)

	out := Terminal(doc)
	assert.Contains(t, out, "Safer Values")
	assert.Contains(t, out, "Absence is a value too.")
	assert.Contains(t, out, "— Somebody")
	assert.Contains(t, out, "x := 1")
	assert.Contains(t, out, "• first")
	assert.Contains(t, out, "(Option example)")
}
