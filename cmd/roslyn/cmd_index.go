package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ammubhave/roslyn/persistence"
	"github.com/ammubhave/roslyn/providers"
	"github.com/ammubhave/roslyn/structure"
)

var defaultIndexExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/.roslyn/**",
}

func newIndexCmd() *cobra.Command {
	var includes []string
	var excludes []string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Precompute block structures for the workspace into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			store, err := persistence.NewStructureStore(rt.cfg.CachePath)
			if err != nil {
				return fmt.Errorf("open structure cache: %w", err)
			}
			defer store.Close()

			detector := providers.NewLanguageDetector()
			files, err := collectFiles(rt.cfg.Workspace, includes, append(defaultIndexExcludes, excludes...), detector)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No indexable files found")
				return nil
			}

			bar := progressbar.NewOptions(len(files),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Indexing"),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(cmd.OutOrStdout()) }),
			)

			indexed, skipped, failed := 0, 0, 0
			for _, path := range files {
				bar.Add(1)
				data, err := os.ReadFile(path)
				if err != nil {
					failed++
					continue
				}
				content := string(data)
				hash := persistence.HashContent(content)
				if _, ok, err := store.GetStructure(hash); err == nil && ok {
					skipped++
					continue
				}
				lang := detector.Detect(path)
				bs, err := rt.service.ComputeBlockStructure(context.Background(), structure.TextDocument{
					Language: lang,
					Content:  content,
				}, rt.cfg.PolicyFor(lang))
				if err != nil {
					rt.logger.Printf("index %s: %v", path, err)
					failed++
					continue
				}
				record := &persistence.DocumentRecord{
					ContentHash: hash,
					Path:        path,
					Language:    lang,
					ComputedAt:  time.Now(),
				}
				if err := store.SaveStructure(record, bs); err != nil {
					rt.logger.Printf("cache %s: %v", path, err)
					failed++
					continue
				}
				indexed++
			}

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files (%d cached, %d failed); cache holds %d documents / %d spans\n",
				indexed, skipped, failed, stats.TotalDocuments, stats.TotalSpans)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&includes, "include", nil, "Glob patterns to index (default: every detectable language)")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Glob patterns to skip, in addition to the defaults")
	return cmd
}

// collectFiles walks the workspace and keeps files that match the include
// globs (or, with no globs, files whose language is detectable).
func collectFiles(root string, includes, excludes []string, detector *providers.LanguageDetector) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		for _, pattern := range excludes {
			if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
				return nil
			}
		}
		if len(includes) > 0 {
			matched := false
			for _, pattern := range includes {
				if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		} else if detector.Detect(path) == "unknown" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
