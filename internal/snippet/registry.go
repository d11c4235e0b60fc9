// Package snippet manages the named example snippets that tutorial documents
// reference by placeholder. Snippets live as plain source files in a
// directory; the filename (minus extension) is the snippet name and the
// extension picks the language tag.
package snippet

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"primer/internal/document"
	"primer/internal/opt"
)

// Snippet is one named example.
type Snippet struct {
	Name string // normalized name, e.g. "option"
	Lang string // language tag, e.g. "go"
	Path string
	Body string
}

// Registry holds the snippets discovered in a directory.
type Registry struct {
	snippets map[string]Snippet
}

var langByExt = map[string]string{
	".go":   "go",
	".sh":   "sh",
	".txt":  "text",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
}

var ignoredDirs = []string{".git", "vendor", "node_modules", "testdata"}

// Load walks dir and registers every file with a known extension. A missing
// directory yields an empty registry, since a handbook without snippets is
// valid (placeholders then stay unresolved references).
func Load(dir string) (*Registry, error) {
	r := &Registry{snippets: map[string]Snippet{}}
	if dir == "" {
		return r, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return r, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range ignoredDirs {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		lang, ok := langByExt[filepath.Ext(d.Name())]
		if !ok {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read snippet %s: %w", path, err)
		}

		name := normalize(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		if prev, dup := r.snippets[name]; dup {
			return fmt.Errorf("snippet %q defined by both %s and %s", name, prev.Path, path)
		}
		r.snippets[name] = Snippet{
			Name: name,
			Lang: lang,
			Path: path,
			Body: strings.TrimRight(string(body), "\n"),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve looks up a snippet by placeholder name. "Option" and "option"
// resolve the same snippet.
func (r *Registry) Resolve(name string) opt.Option[Snippet] {
	if s, ok := r.snippets[normalize(name)]; ok {
		return opt.Some(s)
	}
	return opt.None[Snippet]()
}

// Names returns the registered snippet names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.snippets))
	for name := range r.snippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered snippets.
func (r *Registry) Len() int { return len(r.snippets) }

func normalize(name string) string { return document.Slugify(name) }
