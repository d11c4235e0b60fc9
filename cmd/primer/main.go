package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"primer/internal/compose"
	"primer/internal/config"
	"primer/internal/lint"
	"primer/internal/logger"
	"primer/internal/markdown"
	"primer/internal/render"
	"primer/internal/snippet"
	"primer/internal/store"
	"primer/internal/xref"
)

var (
	rootCmd = &cobra.Command{
		Use:   "primer",
		Short: "Tutorial handbook toolkit: build, lint, render and search concept documents",
	}
	configPath string
	dbPath     string
	verboseLog bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "primer.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the section index database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseLog, "verbose", "v", false, "Enable verbose logging to stderr")
	cobra.OnInitialize(func() { logger.SetVerbose(verboseLog) })

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(snippetsCmd)
	rootCmd.AddCommand(watchCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	return cfg
}

func openStore(cfg *config.Config) (*store.Store, error) {
	return store.New(cfg.Store.Path)
}

// buildArtifacts bundles everything a full compose produces.
type buildArtifacts struct {
	book     *compose.Book
	chapters []*compose.Chapter
	registry *snippet.Registry
	result   *compose.BuildResult
}

// buildOnce runs a full compose of the book at bookPath.
func buildOnce(bookPath string) (*buildArtifacts, error) {
	book, err := compose.LoadBook(bookPath)
	if err != nil {
		return nil, err
	}

	reg, err := snippet.Load(book.SnippetsDir())
	if err != nil {
		return nil, fmt.Errorf("load snippets: %w", err)
	}
	logger.Debug("loaded %d snippets from %s", reg.Len(), book.SnippetsDir())

	var chapters []*compose.Chapter
	var failures []error
	for _, res := range compose.LoadChapters(book.ChapterPaths()) {
		ch, err := res.Unwrap()
		if err != nil {
			failures = append(failures, err)
			continue
		}
		chapters = append(chapters, ch)
	}
	if len(failures) > 0 {
		for _, err := range failures {
			fmt.Printf("⚠️  %v\n", err)
		}
		return nil, fmt.Errorf("%d chapter(s) failed to load", len(failures))
	}

	result := compose.NewComposer(reg).Compose(book, chapters)
	return &buildArtifacts{book: book, chapters: chapters, registry: reg, result: result}, nil
}

// reportReferences prints dangling example references and snippets nothing
// uses. The graph is built from the chapter sources, before placeholder
// resolution rewrites them into code fences.
func reportReferences(arts *buildArtifacts) {
	g := xref.NewGraph()
	g.AddRegistry(arts.registry)
	for _, ch := range arts.chapters {
		g.AddDocument(ch.Doc)
	}

	for _, edge := range g.Dangling() {
		if edge.Kind == xref.EdgeExample {
			fmt.Printf("  ⚠️  line %d: no snippet for %s\n", edge.Line, edge.To)
		}
	}
	for _, name := range arts.registry.Names() {
		if len(g.Dependents(xref.SnippetID(name))) == 0 {
			fmt.Printf("  💤 snippet %q is not referenced by any chapter\n", name)
		}
	}
}

var buildCmd = &cobra.Command{
	Use:   "build [book.yaml]",
	Short: "Compose the handbook, write the output file, and index its sections",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		bookPath := cfg.Book.File
		if len(args) > 0 {
			bookPath = args[0]
		}

		fmt.Printf("📖 Building %s...\n", bookPath)
		arts, err := buildOnce(bookPath)
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		book, result := arts.book, arts.result

		for _, ch := range result.Chapters {
			if ch.Skipped {
				fmt.Printf("  ⏭  %s (draft, skipped)\n", ch.Slug)
				continue
			}
			fmt.Printf("  ✅ %s: %d words, %d example(s) resolved, %d unresolved\n",
				ch.Slug, ch.Words, ch.Resolved, ch.Unresolved)
		}

		outPath := book.OutputPath()
		if err := os.WriteFile(outPath, []byte(result.Markdown), 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", outPath, err)
		}

		findings := lint.Run(result.Doc, nil)
		for _, f := range findings {
			fmt.Printf("  ⚠️  %s\n", f)
		}
		reportReferences(arts)

		ctx := context.Background()
		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer st.Close()

		if err := st.SaveDocument(ctx, result.Doc, result.RunID, result.BuiltAt); err != nil {
			log.Fatalf("Failed to index document: %v", err)
		}

		fmt.Printf("✨ Wrote %s (%d words), indexed %d sections. Run %s\n",
			outPath, result.Doc.WordCount(), len(result.Doc.Sections()), result.RunID[:8])
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint [file|book.yaml]",
	Short: "Run the editorial checks against a document or every chapter of a book",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		target := cfg.Book.File
		if len(args) > 0 {
			target = args[0]
		}

		var total, errs int
		if isBookFile(target) {
			// Chapters are composed first so cross-chapter anchors resolve.
			// Structural defects are reported per chapter, against the
			// chapter's own path and line numbers.
			arts, err := buildOnce(target)
			if err != nil {
				log.Fatalf("Failed to load book: %v", err)
			}
			for _, ch := range arts.chapters {
				t, e := reportFindings(ch.Path, lint.FromDefects(ch.Defects))
				total += t
				errs += e
			}
			t, e := reportFindings(target, lint.Run(arts.result.Doc, nil))
			total += t
			errs += e
		} else {
			doc, defects, err := markdown.ParseFile(target)
			if err != nil {
				log.Fatalf("Failed to parse %s: %v", target, err)
			}
			total, errs = reportFindings(target, lint.Run(doc, defects))
		}

		if errs > 0 {
			fmt.Printf("❌ %d finding(s), %d error(s)\n", total, errs)
			os.Exit(1)
		}
		fmt.Printf("✅ %d finding(s), no errors\n", total)
	},
}

func reportFindings(path string, findings []lint.Finding) (total, errs int) {
	for _, f := range findings {
		fmt.Printf("%s:%s\n", path, f)
		total++
		if f.Severity == lint.SeverityError {
			errs++
		}
	}
	return total, errs
}

var (
	renderFormat string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a Markdown document as HTML or a styled terminal view",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, _, err := markdown.ParseFile(args[0])
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", args[0], err)
		}

		switch renderFormat {
		case "html":
			src, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Failed to read %s: %v", args[0], err)
			}
			title := doc.Title
			if title == "" {
				title = filepath.Base(args[0])
			}
			page, err := render.HTMLPage(title, src)
			if err != nil {
				log.Fatalf("Render failed: %v", err)
			}
			writeOutput(page)
		case "term":
			writeOutput([]byte(render.Terminal(doc)))
		default:
			log.Fatalf("Unknown format %q (want html or term)", renderFormat)
		}
	},
}

func writeOutput(data []byte) {
	if renderOut == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(renderOut, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", renderOut, err)
	}
	fmt.Printf("✅ Wrote %s\n", renderOut)
}

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed handbook sections",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		query := strings.Join(args, " ")

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer st.Close()

		hits, err := st.SearchSections(context.Background(), query, searchLimit)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		if len(hits) == 0 {
			fmt.Println("No sections matched. Run 'primer build' first to index the handbook.")
			return
		}

		for _, hit := range hits {
			fmt.Printf("📄 %s#%s — %s (%d words)\n", hit.DocSlug, hit.Anchor, hit.Title, hit.WordCount)
			fmt.Printf("   %s\n", hit.Excerpt)
		}
	},
}

var snippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "Inspect the example snippet registry",
}

var snippetsVerifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Syntax-check every registered snippet",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		dir := cfg.Snippets.Dir
		if len(args) > 0 {
			dir = args[0]
		}

		reg, err := snippet.Load(dir)
		if err != nil {
			log.Fatalf("Failed to load snippets: %v", err)
		}
		fmt.Printf("🔍 Verifying %d snippet(s) in %s...\n", reg.Len(), dir)

		issues, err := reg.VerifyAll(context.Background())
		if err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		if len(issues) > 0 {
			for _, issue := range issues {
				fmt.Printf("  ❌ %s\n", issue)
			}
			os.Exit(1)
		}
		fmt.Println("✅ All snippets parse cleanly.")
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "term", "Output format: html or term")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "Write output to a file instead of stdout")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results")
	snippetsCmd.AddCommand(snippetsVerifyCmd)
}

func isBookFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
