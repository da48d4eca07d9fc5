package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ammubhave/roslyn/persistence"
	"github.com/ammubhave/roslyn/providers"
	"github.com/ammubhave/roslyn/structure"
)

func newInspectCmd() *cobra.Command {
	var language string
	var noCache bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the block structure of a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			content := string(data)

			lang := language
			if lang == "" {
				lang = providers.NewLanguageDetector().Detect(path)
			}
			if lang == "unknown" {
				return errors.New("could not detect language; pass --lang")
			}

			hash := persistence.HashContent(content)
			var bs *structure.BlockStructure
			if !noCache {
				if store, err := persistence.NewStructureStore(rt.cfg.CachePath); err == nil {
					if cached, ok, err := store.GetStructure(hash); err == nil && ok {
						bs = cached
					}
					defer store.Close()
				}
			}
			if bs == nil {
				bs, err = rt.service.ComputeBlockStructure(context.Background(), structure.TextDocument{
					Language: lang,
					Content:  content,
				}, rt.cfg.PolicyFor(lang))
				if err != nil {
					return err
				}
			}

			out := struct {
				Path     string                `json:"path"`
				Language string                `json:"language"`
				Hash     string                `json:"hash"`
				Spans    []structure.BlockSpan `json:"spans"`
			}{Path: path, Language: lang, Hash: hash, Spans: bs.Spans}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&language, "lang", "", "Override language detection")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the structure cache and recompute")
	return cmd
}
