package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"primer/internal/document"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	headingStyle     = lipgloss.NewStyle().Bold(true)
	quoteStyle       = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
	attributionStyle = lipgloss.NewStyle().Faint(true).Italic(true).PaddingLeft(4)
	fenceStyle       = lipgloss.NewStyle().PaddingLeft(4)
	langStyle        = lipgloss.NewStyle().Faint(true).PaddingLeft(4)
	placeholderStyle = lipgloss.NewStyle().Italic(true)
)

// Terminal renders a document for display in a terminal.
func Terminal(doc *document.Document) string {
	var sb strings.Builder
	for i, b := range doc.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeTermBlock(&sb, b)
	}
	return sb.String()
}

func writeTermBlock(sb *strings.Builder, b document.Block) {
	switch v := b.(type) {
	case document.Heading:
		if v.Level == 1 {
			sb.WriteString(titleStyle.Render(v.Text))
		} else {
			marker := strings.Repeat("#", v.Level) + " "
			sb.WriteString(headingStyle.Render(marker + v.Text))
		}
		sb.WriteString("\n")
	case document.Paragraph:
		sb.WriteString(v.Text)
		sb.WriteString("\n")
	case document.CodeFence:
		if lang, ok := v.Lang.Unwrap(); ok {
			sb.WriteString(langStyle.Render("[" + lang + "]"))
			sb.WriteString("\n")
		}
		sb.WriteString(fenceStyle.Render(v.Body))
		sb.WriteString("\n")
	case document.Blockquote:
		for _, line := range v.Lines {
			sb.WriteString(quoteStyle.Render("│ " + line))
			sb.WriteString("\n")
		}
		if attr, ok := v.Attribution.Unwrap(); ok {
			sb.WriteString(attributionStyle.Render("— " + attr))
			sb.WriteString("\n")
		}
	case document.List:
		for i, item := range v.Items {
			if v.Ordered {
				fmt.Fprintf(sb, "  %d. %s\n", i+1, item)
			} else {
				fmt.Fprintf(sb, "  • %s\n", item)
			}
		}
	case document.ThematicBreak:
		sb.WriteString(strings.Repeat("─", 40))
		sb.WriteString("\n")
	case document.ExamplePlaceholder:
		sb.WriteString(placeholderStyle.Render(fmt.Sprintf("(%s example)", v.Name)))
		sb.WriteString("\n")
	}
}
