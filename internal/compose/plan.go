package compose

import (
	"path/filepath"
	"sort"
	"strings"

	"primer/internal/document"
)

// RebuildPlan decides which chapters a set of changed paths invalidates.
// The book file or an unknown path under the book directory forces a full
// rebuild.
type RebuildPlan struct {
	ChangedPaths []string
	Chapters     []string // affected chapter slugs, sorted
	Full         bool
}

// Empty reports whether the plan requires no work.
func (p *RebuildPlan) Empty() bool {
	return !p.Full && len(p.Chapters) == 0
}

// BuildRebuildPlan maps changed paths to affected chapters. A chapter is
// affected when its source changed or when it references a snippet whose
// file changed.
func BuildRebuildPlan(book *Book, bookPath string, chapters []*Chapter, changed []string) *RebuildPlan {
	plan := &RebuildPlan{ChangedPaths: changed}
	if len(changed) == 0 {
		return plan
	}

	chapterByPath := map[string]*Chapter{}
	for _, ch := range chapters {
		chapterByPath[filepath.Clean(ch.Path)] = ch
	}

	snippetsDir := book.SnippetsDir()
	affected := map[string]bool{}

	for _, raw := range changed {
		path := filepath.Clean(raw)

		if path == filepath.Clean(bookPath) {
			plan.Full = true
			continue
		}

		if ch, ok := chapterByPath[path]; ok {
			affected[ch.Slug()] = true
			continue
		}

		if snippetsDir != "" && isUnder(snippetsDir, path) {
			name := document.Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			for _, ch := range chapters {
				if referencesSnippet(ch, name) {
					affected[ch.Slug()] = true
				}
			}
			continue
		}

		// A path we cannot attribute: rebuild everything rather than miss it.
		plan.Full = true
	}

	for slug := range affected {
		plan.Chapters = append(plan.Chapters, slug)
	}
	sort.Strings(plan.Chapters)
	return plan
}

func referencesSnippet(ch *Chapter, name string) bool {
	for _, ph := range ch.Doc.Placeholders() {
		if document.Slugify(ph.Name) == name {
			return true
		}
	}
	return false
}

func isUnder(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
