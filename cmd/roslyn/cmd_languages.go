package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages and the providers that serve them",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			languages := rt.resolver.Languages()
			for _, lang := range rt.registry.Languages() {
				languages = append(languages, lang)
			}
			sort.Strings(languages)
			languages = dedupe(languages)

			for _, lang := range languages {
				names := make([]string, 0, 4)
				for _, p := range rt.resolver.ResolveProviders(lang) {
					names = append(names, p.Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", lang, strings.Join(names, ", "))
			}
			return nil
		},
	}
	return cmd
}

func dedupe(values []string) []string {
	out := values[:0]
	var last string
	for i, v := range values {
		if i == 0 || v != last {
			out = append(out, v)
		}
		last = v
	}
	return out
}
