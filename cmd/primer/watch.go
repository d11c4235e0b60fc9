package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"primer/internal/compose"
	"primer/internal/config"
	"primer/internal/lint"
	"primer/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [book.yaml]",
	Short: "Rebuild the handbook whenever chapter or snippet sources change",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		bookPath := cfg.Book.File
		if len(args) > 0 {
			bookPath = args[0]
		}

		arts, err := buildOnce(bookPath)
		if err != nil {
			log.Fatalf("Initial build failed: %v", err)
		}
		book, chapters := arts.book, arts.chapters
		writeAndIndex(cfg, book, arts.result)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			log.Fatalf("Failed to create watcher: %v", err)
		}
		defer watcher.Close()

		for _, dir := range watchDirs(book, bookPath) {
			if err := watcher.Add(dir); err != nil {
				log.Fatalf("Failed to watch %s: %v", dir, err)
			}
			logger.Debug("watching %s", dir)
		}

		fmt.Printf("👀 Watching %s for changes (Ctrl-C to stop)...\n", book.Dir)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
		var pending []string
		var timer *time.Timer
		var timerCh <-chan time.Time

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if strings.HasSuffix(ev.Name, "~") || filepath.Base(ev.Name) == filepath.Base(book.OutputPath()) {
					continue
				}
				logger.Debug("event: %s %s", ev.Op, ev.Name)
				pending = append(pending, ev.Name)
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				timerCh = timer.C

			case <-timerCh:
				timerCh = nil
				changed := dedupe(pending)
				pending = nil

				plan := compose.BuildRebuildPlan(book, bookPath, chapters, changed)
				if plan.Empty() {
					continue
				}
				if plan.Full {
					fmt.Println("🔄 Configuration changed, full rebuild...")
				} else {
					fmt.Printf("🔄 Rebuilding (%s)...\n", strings.Join(plan.Chapters, ", "))
				}

				newArts, err := buildOnce(bookPath)
				if err != nil {
					fmt.Printf("⚠️  Rebuild failed: %v\n", err)
					continue
				}
				book, chapters = newArts.book, newArts.chapters
				writeAndIndex(cfg, book, newArts.result)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error: %v", err)

			case <-sigCh:
				fmt.Println("\n👋 Stopping watch.")
				return
			}
		}
	},
}

func writeAndIndex(cfg *config.Config, book *compose.Book, result *compose.BuildResult) {
	outPath := book.OutputPath()
	if err := os.WriteFile(outPath, []byte(result.Markdown), 0644); err != nil {
		fmt.Printf("⚠️  Failed to write %s: %v\n", outPath, err)
		return
	}

	if findings := lint.Run(result.Doc, nil); lint.HasErrors(findings) {
		for _, f := range findings {
			if f.Severity == lint.SeverityError {
				fmt.Printf("  ⚠️  %s\n", f)
			}
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Printf("⚠️  Failed to open store: %v\n", err)
		return
	}
	defer st.Close()

	if err := st.SaveDocument(context.Background(), result.Doc, result.RunID, result.BuiltAt); err != nil {
		fmt.Printf("⚠️  Failed to index document: %v\n", err)
		return
	}
	fmt.Printf("✅ %s rebuilt at %s\n", outPath, result.BuiltAt.Format("15:04:05"))
}

// watchDirs collects the directories holding the book file, every chapter,
// and the snippets. fsnotify watches directories, not globs.
func watchDirs(book *compose.Book, bookPath string) []string {
	seen := map[string]bool{filepath.Dir(bookPath): true}
	for _, p := range book.ChapterPaths() {
		seen[filepath.Dir(p)] = true
	}
	if dir := book.SnippetsDir(); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			seen[dir] = true
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	return dirs
}

func dedupe(paths []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
