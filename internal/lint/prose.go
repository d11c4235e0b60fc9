package lint

import (
	"fmt"
	"strings"

	"primer/internal/document"
)

// checkProse flags sections whose prose shape suggests unfinished writing:
// empty sections, list-heavy sections, and leftover instructional text.
func checkProse(doc *document.Document) []Finding {
	var out []Finding
	for _, sec := range doc.Sections() {
		if sec.Level() == 0 {
			continue
		}
		out = append(out, assessSection(sec)...)
	}
	return out
}

func assessSection(sec *document.Section) []Finding {
	var out []Finding

	if len(sec.Blocks) == 0 && len(sec.Children) == 0 {
		return []Finding{{
			Rule:     RuleProseQuality,
			Severity: SeverityWarning,
			Line:     sec.Heading.Line,
			Message:  fmt.Sprintf("section %q has no content", sec.Title()),
		}}
	}

	listItems := 0
	paragraphs := 0
	for _, b := range sec.Blocks {
		switch v := b.(type) {
		case document.List:
			listItems += len(v.Items)
		case document.Paragraph:
			paragraphs++
		}
	}
	total := listItems + paragraphs
	if total >= 4 && float64(listItems)/float64(total) > 0.75 {
		out = append(out, Finding{
			Rule:     RuleProseQuality,
			Severity: SeverityWarning,
			Line:     sec.Heading.Line,
			Message:  fmt.Sprintf("section %q is list-heavy; prefer narrative prose", sec.Title()),
		})
	}

	for _, b := range sec.Blocks {
		p, ok := b.(document.Paragraph)
		if !ok {
			continue
		}
		lower := strings.ToLower(p.Text)
		for _, token := range []string{"tbd", "todo:", "fixme", "write this section", "lorem ipsum"} {
			if strings.Contains(lower, token) {
				out = append(out, Finding{
					Rule:     RuleProseQuality,
					Severity: SeverityWarning,
					Line:     p.Line,
					Message:  fmt.Sprintf("section %q contains unfinished text (%q)", sec.Title(), token),
				})
				break
			}
		}
	}

	return out
}
