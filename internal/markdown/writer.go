package markdown

import (
	"fmt"
	"strings"

	"primer/internal/document"
)

// Write renders a document back to canonical Markdown. Blocks are separated
// by a single blank line; fences always use backticks.
func Write(d *document.Document) string {
	return WriteBlocks(d.Blocks)
}

// WriteBlocks renders a block sequence to Markdown.
func WriteBlocks(blocks []document.Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeBlock(&sb, b)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, b document.Block) {
	switch v := b.(type) {
	case document.Heading:
		sb.WriteString(strings.Repeat("#", v.Level))
		sb.WriteString(" ")
		sb.WriteString(v.Text)
		sb.WriteString("\n")
	case document.Paragraph:
		sb.WriteString(v.Text)
		sb.WriteString("\n")
	case document.CodeFence:
		sb.WriteString("```")
		if lang, ok := v.Lang.Unwrap(); ok {
			sb.WriteString(lang)
		}
		sb.WriteString("\n")
		if v.Body != "" {
			sb.WriteString(v.Body)
			sb.WriteString("\n")
		}
		sb.WriteString("```\n")
	case document.Blockquote:
		for _, line := range v.Lines {
			sb.WriteString("> ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		if attr, ok := v.Attribution.Unwrap(); ok {
			sb.WriteString(">\n> — ")
			sb.WriteString(attr)
			sb.WriteString("\n")
		}
	case document.List:
		for i, item := range v.Items {
			if v.Ordered {
				fmt.Fprintf(sb, "%d. %s\n", i+1, item)
			} else {
				fmt.Fprintf(sb, "- %s\n", item)
			}
		}
	case document.ThematicBreak:
		sb.WriteString("---\n")
	case document.ExamplePlaceholder:
		fmt.Fprintf(sb, "*%s example*\n", v.Name)
	}
}
