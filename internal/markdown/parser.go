// Package markdown converts between Markdown text and the document model.
// The parser covers the subset the tutorial corpus uses: ATX headings,
// paragraphs, fenced code blocks, blockquotes, lists, thematic breaks,
// inline links and example placeholders.
package markdown

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"primer/internal/document"
	"primer/internal/opt"
)

// Defect is a structural problem found while parsing. Parsing never fails on
// malformed structure; defects are recorded so the linter can report them
// with line numbers.
type Defect struct {
	Line   int
	Kind   string
	Detail string
}

// Defect kinds reported by the parser.
const (
	DefectUnterminatedFence = "unterminated_fence"
	DefectEmptyLinkTarget   = "empty_link_target"
)

var (
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]*)\)`)
	placeholderRe = regexp.MustCompile(`^[*_](.+?) example[*_]$`)
	orderedRe     = regexp.MustCompile(`^(\d+)[.)]\s+(.*)$`)
	breakRe       = regexp.MustCompile(`^(\*{3,}|-{3,}|_{3,})\s*$`)
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	attributionRe = regexp.MustCompile(`^(?:—|--)\s*(.+)$`)
)

// ParseFile reads and parses a Markdown file.
func ParseFile(path string) (*document.Document, []Defect, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, defects := Parse(path, src)
	return doc, defects, nil
}

// Parse converts Markdown source into a Document plus any structural defects.
func Parse(path string, src []byte) (*document.Document, []Defect) {
	p := &parser{}
	scanner := bufio.NewScanner(strings.NewReader(string(src)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		p.feed(line, scanner.Text())
	}
	p.finish()

	return document.New(path, p.blocks), p.defects
}

type parser struct {
	blocks  []document.Block
	defects []Defect

	// paragraph accumulator
	paraLines []string
	paraStart int

	// open fence state
	inFence    bool
	fenceChar  byte
	fenceLen   int
	fenceStart int
	fenceInfo  string
	fenceBody  []string

	// blockquote accumulator
	quoteLines []string
	quoteStart int

	// list accumulator
	listItems   []string
	listOrdered bool
	listStart   int
}

func (p *parser) feed(line int, raw string) {
	if p.inFence {
		if marker, _ := fenceMarker(raw); marker != "" && marker[0] == p.fenceChar && len(marker) >= p.fenceLen {
			p.closeFence()
			return
		}
		p.fenceBody = append(p.fenceBody, raw)
		return
	}

	trimmed := strings.TrimSpace(raw)

	if marker, info := fenceMarker(raw); marker != "" {
		p.flushAll()
		p.inFence = true
		p.fenceChar = marker[0]
		p.fenceLen = len(marker)
		p.fenceStart = line
		p.fenceInfo = info
		p.fenceBody = nil
		return
	}

	if trimmed == "" {
		p.flushAll()
		return
	}

	if m := headingRe.FindStringSubmatch(trimmed); m != nil {
		p.flushAll()
		p.blocks = append(p.blocks, document.Heading{
			Line:  line,
			Level: len(m[1]),
			Text:  m[2],
		})
		return
	}

	if breakRe.MatchString(trimmed) {
		p.flushAll()
		p.blocks = append(p.blocks, document.ThematicBreak{Line: line})
		return
	}

	if strings.HasPrefix(trimmed, ">") {
		p.flushParagraph()
		p.flushList()
		if len(p.quoteLines) == 0 {
			p.quoteStart = line
		}
		p.quoteLines = append(p.quoteLines, strings.TrimSpace(strings.TrimPrefix(trimmed, ">")))
		return
	}
	p.flushQuote()

	if item, ordered, ok := listItem(trimmed); ok {
		p.flushParagraph()
		if len(p.listItems) == 0 {
			p.listStart = line
			p.listOrdered = ordered
		}
		p.listItems = append(p.listItems, item)
		return
	}
	p.flushList()

	if len(p.paraLines) == 0 {
		p.paraStart = line
	}
	p.paraLines = append(p.paraLines, trimmed)
}

func (p *parser) finish() {
	if p.inFence {
		p.defects = append(p.defects, Defect{
			Line:   p.fenceStart,
			Kind:   DefectUnterminatedFence,
			Detail: "code fence opened here is never closed",
		})
		p.closeFence()
	}
	p.flushAll()
}

func (p *parser) closeFence() {
	fence := document.CodeFence{
		Line: p.fenceStart,
		Body: strings.Join(p.fenceBody, "\n"),
	}
	if info := strings.TrimSpace(p.fenceInfo); info != "" {
		fence.Lang = opt.Some(info)
	} else {
		fence.Lang = opt.None[string]()
	}
	p.blocks = append(p.blocks, fence)
	p.inFence = false
	p.fenceBody = nil
}

func (p *parser) flushAll() {
	p.flushParagraph()
	p.flushQuote()
	p.flushList()
}

func (p *parser) flushParagraph() {
	if len(p.paraLines) == 0 {
		return
	}
	text := strings.Join(p.paraLines, " ")
	start := p.paraStart
	p.paraLines = nil

	if m := placeholderRe.FindStringSubmatch(text); m != nil {
		p.blocks = append(p.blocks, document.ExamplePlaceholder{Line: start, Name: m[1]})
		return
	}

	para := document.Paragraph{Line: start, Text: text}
	for _, lm := range linkRe.FindAllStringSubmatch(text, -1) {
		link := document.Link{Line: start, Text: lm[1], Target: lm[2]}
		if link.Target == "" {
			p.defects = append(p.defects, Defect{
				Line:   start,
				Kind:   DefectEmptyLinkTarget,
				Detail: fmt.Sprintf("link %q has no target", lm[1]),
			})
		}
		para.Links = append(para.Links, link)
	}
	p.blocks = append(p.blocks, para)
}

func (p *parser) flushQuote() {
	if len(p.quoteLines) == 0 {
		return
	}
	quote := document.Blockquote{Line: p.quoteStart, Attribution: opt.None[string]()}
	lines := p.quoteLines
	p.quoteLines = nil

	if len(lines) > 1 {
		if m := attributionRe.FindStringSubmatch(lines[len(lines)-1]); m != nil {
			quote.Attribution = opt.Some(strings.TrimSpace(m[1]))
			lines = lines[:len(lines)-1]
		}
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	quote.Lines = lines
	p.blocks = append(p.blocks, quote)
}

func (p *parser) flushList() {
	if len(p.listItems) == 0 {
		return
	}
	p.blocks = append(p.blocks, document.List{
		Line:    p.listStart,
		Ordered: p.listOrdered,
		Items:   p.listItems,
	})
	p.listItems = nil
}

// fenceMarker reports the fence marker ("```" or longer, or tildes) and the
// info string when the line opens or closes a fence.
func fenceMarker(raw string) (marker, info string) {
	s := strings.TrimLeft(raw, " ")
	if len(raw)-len(s) > 3 {
		return "", ""
	}
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(s) && s[n] == ch {
			n++
		}
		if n >= 3 {
			return s[:n], strings.TrimSpace(s[n:])
		}
	}
	return "", ""
}

func listItem(trimmed string) (item string, ordered, ok bool) {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), false, true
		}
	}
	if m := orderedRe.FindStringSubmatch(trimmed); m != nil {
		return m[2], true, true
	}
	return "", false, false
}
