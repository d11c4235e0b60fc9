package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primer/internal/opt"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Optional Values", "optional-values"},
		{"An Option container", "an-option-container"},
		{"  Results & Recoverable Errors  ", "results-recoverable-errors"},
		{"snake_case_title", "snake-case-title"},
		{"C'est la vie!", "cest-la-vie"},
		{"---", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "input %q", c.in)
	}
}

func TestNew_TitleAndAnchors(t *testing.T) {
	doc := New("guide.md", []Block{
		Heading{Line: 1, Level: 1, Text: "Guide"},
		Heading{Line: 3, Level: 2, Text: "Setup"},
		Heading{Line: 5, Level: 2, Text: "Setup"},
	})

	assert.Equal(t, "Guide", doc.Title)
	assert.Equal(t, "guide", doc.Slug)

	anchors := make([]string, 0, 3)
	for _, b := range doc.Blocks {
		anchors = append(anchors, b.(Heading).Anchor)
	}
	assert.Equal(t, []string{"guide", "setup", "setup-1"}, anchors)
}

func TestSections_FlatAndNested(t *testing.T) {
	doc := New("x.md", []Block{
		Heading{Line: 1, Level: 1, Text: "Top"},
		Paragraph{Line: 2, Text: "intro"},
		Heading{Line: 4, Level: 2, Text: "Left"},
		Paragraph{Line: 5, Text: "left body"},
		Heading{Line: 7, Level: 3, Text: "Left Child"},
		Heading{Line: 9, Level: 2, Text: "Right"},
	})

	sections := doc.Sections()
	require.Len(t, sections, 4)
	assert.Equal(t, "Top", sections[0].Title())
	assert.Len(t, sections[0].Blocks, 1)

	// Top has Left and Right as children; Left has Left Child.
	require.Len(t, sections[0].Children, 2)
	assert.Equal(t, "Left", sections[0].Children[0].Title())
	assert.Equal(t, "Right", sections[0].Children[1].Title())
	require.Len(t, sections[0].Children[0].Children, 1)
	assert.Equal(t, "Left Child", sections[0].Children[0].Children[0].Title())
}

func TestSections_PreambleBeforeFirstHeading(t *testing.T) {
	doc := New("x.md", []Block{
		Paragraph{Line: 1, Text: "floating intro"},
		Heading{Line: 3, Level: 1, Text: "Title"},
	})

	sections := doc.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, 0, sections[0].Level())
	assert.Equal(t, "preamble", sections[0].Anchor())
}

func TestSectionByAnchor(t *testing.T) {
	doc := New("x.md", []Block{
		Heading{Line: 1, Level: 1, Text: "Title"},
		Heading{Line: 3, Level: 2, Text: "Details"},
	})

	sec, ok := doc.SectionByAnchor("details").Unwrap()
	require.True(t, ok)
	assert.Equal(t, "Details", sec.Title())

	assert.True(t, doc.SectionByAnchor("missing").IsNone())
}

func TestWordCount_IgnoresCode(t *testing.T) {
	doc := New("x.md", []Block{
		Heading{Line: 1, Level: 1, Text: "Two Words"},
		Paragraph{Line: 2, Text: "three more words"},
		CodeFence{Line: 4, Lang: opt.Some("go"), Body: "func main() {}"},
		List{Line: 8, Items: []string{"one", "two words"}},
	})
	assert.Equal(t, 8, doc.WordCount())
}

func TestPlaceholdersAndLinks(t *testing.T) {
	doc := New("x.md", []Block{
		Heading{Line: 1, Level: 1, Text: "Title"},
		Paragraph{Line: 2, Text: "see [setup](#setup)", Links: []Link{{Line: 2, Text: "setup", Target: "#setup"}}},
		ExamplePlaceholder{Line: 4, Name: "Option"},
	})

	links := doc.Links()
	require.Len(t, links, 1)
	assert.True(t, links[0].IsInternal())

	phs := doc.Placeholders()
	require.Len(t, phs, 1)
	assert.Equal(t, "Option", phs[0].Name)
}
