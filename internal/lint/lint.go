// Package lint implements the editorial checks for tutorial documents:
// balanced fences, heading hierarchy, placeholder introduction, link
// resolution, and prose quality.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"primer/internal/document"
	"primer/internal/markdown"
)

// Severity classifies a finding. Errors fail a lint run, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers, stable across releases so findings can be filtered.
const (
	RuleBalancedFences   = "balanced-fences"
	RuleHeadingHierarchy = "heading-hierarchy"
	RulePlaceholderIntro = "placeholder-introduction"
	RuleDanglingLink     = "dangling-link"
	RuleFenceLanguage    = "fence-language"
	RuleDuplicateHeading = "duplicate-heading"
	RuleProseQuality     = "prose-quality"
)

// Finding is a single editorial problem located in the source document.
type Finding struct {
	Rule     string
	Severity Severity
	Line     int
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%d: [%s] %s: %s", f.Line, f.Severity, f.Rule, f.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FromDefects converts parser defects into findings without running the
// document rules. Callers that lint a composed document report each source
// file's defects separately, against that file's own line numbers.
func FromDefects(defects []markdown.Defect) []Finding {
	findings := checkDefects(defects)
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Line < findings[j].Line
	})
	return findings
}

// Run executes every rule against the document. Parser defects feed the
// structural rules, so callers should pass the defects returned alongside
// the document they parsed.
func Run(doc *document.Document, defects []markdown.Defect) []Finding {
	var findings []Finding

	findings = append(findings, checkDefects(defects)...)
	findings = append(findings, checkHeadings(doc)...)
	findings = append(findings, checkPlaceholders(doc)...)
	findings = append(findings, checkLinks(doc)...)
	findings = append(findings, checkFenceLanguages(doc)...)
	findings = append(findings, checkProse(doc)...)

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Rule < findings[j].Rule
	})
	return findings
}

func checkDefects(defects []markdown.Defect) []Finding {
	var out []Finding
	for _, d := range defects {
		switch d.Kind {
		case markdown.DefectUnterminatedFence:
			out = append(out, Finding{
				Rule:     RuleBalancedFences,
				Severity: SeverityError,
				Line:     d.Line,
				Message:  d.Detail,
			})
		case markdown.DefectEmptyLinkTarget:
			out = append(out, Finding{
				Rule:     RuleDanglingLink,
				Severity: SeverityError,
				Line:     d.Line,
				Message:  d.Detail,
			})
		}
	}
	return out
}

// checkHeadings enforces a single level-1 title and forbids level skips:
// a heading may be at most one level deeper than the one before it.
func checkHeadings(doc *document.Document) []Finding {
	var out []Finding

	var headings []document.Heading
	for _, b := range doc.Blocks {
		if h, ok := b.(document.Heading); ok {
			headings = append(headings, h)
		}
	}

	h1Count := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1Count++
			if h1Count > 1 {
				out = append(out, Finding{
					Rule:     RuleHeadingHierarchy,
					Severity: SeverityError,
					Line:     h.Line,
					Message:  fmt.Sprintf("second level-1 heading %q; a document has one title", h.Text),
				})
			}
		}
	}
	if len(headings) > 0 && h1Count == 0 {
		out = append(out, Finding{
			Rule:     RuleHeadingHierarchy,
			Severity: SeverityError,
			Line:     headings[0].Line,
			Message:  "document has no level-1 title heading",
		})
	}

	prev := 0
	for _, h := range headings {
		if prev > 0 && h.Level > prev+1 {
			out = append(out, Finding{
				Rule:     RuleHeadingHierarchy,
				Severity: SeverityError,
				Line:     h.Line,
				Message:  fmt.Sprintf("heading %q jumps from level %d to %d", h.Text, prev, h.Level),
			})
		}
		prev = h.Level
	}

	seen := map[string]int{}
	for _, h := range headings {
		key := fmt.Sprintf("%d:%s", h.Level, strings.ToLower(h.Text))
		if first, ok := seen[key]; ok {
			out = append(out, Finding{
				Rule:     RuleDuplicateHeading,
				Severity: SeverityWarning,
				Line:     h.Line,
				Message:  fmt.Sprintf("heading %q repeats the level-%d heading on line %d", h.Text, h.Level, first),
			})
			continue
		}
		seen[key] = h.Line
	}

	return out
}

// checkPlaceholders verifies that every "*X example*" placeholder names a
// concept introduced earlier in the same section, either in the heading or
// in a preceding paragraph.
func checkPlaceholders(doc *document.Document) []Finding {
	var out []Finding
	for _, sec := range doc.Sections() {
		for _, b := range sec.Blocks {
			ph, ok := b.(document.ExamplePlaceholder)
			if !ok {
				continue
			}
			if !introducedBefore(sec, ph) {
				out = append(out, Finding{
					Rule:     RulePlaceholderIntro,
					Severity: SeverityError,
					Line:     ph.Line,
					Message:  fmt.Sprintf("placeholder %q references a concept not introduced earlier in section %q", ph.Name+" example", sec.Title()),
				})
			}
		}
	}
	return out
}

func introducedBefore(sec *document.Section, ph document.ExamplePlaceholder) bool {
	name := strings.ToLower(ph.Name)
	if strings.Contains(strings.ToLower(sec.Title()), name) {
		return true
	}
	for _, b := range sec.Blocks {
		if b.Pos() >= ph.Line {
			break
		}
		switch v := b.(type) {
		case document.Paragraph:
			if strings.Contains(strings.ToLower(v.Text), name) {
				return true
			}
		case document.List:
			for _, item := range v.Items {
				if strings.Contains(strings.ToLower(item), name) {
					return true
				}
			}
		}
	}
	return false
}

// checkLinks resolves internal anchor links against section anchors and
// relative file links against the document's directory. External URLs are
// not probed.
func checkLinks(doc *document.Document) []Finding {
	var out []Finding
	base := ""
	if doc.Path != "" {
		base = filepath.Dir(doc.Path)
	}

	for _, link := range doc.Links() {
		target := link.Target
		switch {
		case target == "":
			// already reported by the parser
		case strings.HasPrefix(target, "#"):
			if doc.SectionByAnchor(strings.TrimPrefix(target, "#")).IsNone() {
				out = append(out, Finding{
					Rule:     RuleDanglingLink,
					Severity: SeverityError,
					Line:     link.Line,
					Message:  fmt.Sprintf("link %q targets unknown anchor %s", link.Text, target),
				})
			}
		case strings.Contains(target, "://"), strings.HasPrefix(target, "mailto:"):
			// external, out of scope
		default:
			if base == "" {
				continue
			}
			rel := target
			if i := strings.IndexByte(rel, '#'); i >= 0 {
				rel = rel[:i]
			}
			if rel == "" {
				continue
			}
			if _, err := os.Stat(filepath.Join(base, rel)); err != nil {
				out = append(out, Finding{
					Rule:     RuleDanglingLink,
					Severity: SeverityError,
					Line:     link.Line,
					Message:  fmt.Sprintf("link %q targets missing file %s", link.Text, rel),
				})
			}
		}
	}
	return out
}

func checkFenceLanguages(doc *document.Document) []Finding {
	var out []Finding
	for _, b := range doc.Blocks {
		fence, ok := b.(document.CodeFence)
		if !ok {
			continue
		}
		if fence.Lang.IsNone() {
			out = append(out, Finding{
				Rule:     RuleFenceLanguage,
				Severity: SeverityWarning,
				Line:     fence.Line,
				Message:  "code fence has no language tag",
			})
		}
	}
	return out
}
