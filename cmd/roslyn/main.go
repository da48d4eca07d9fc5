package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ammubhave/roslyn/config"
	"github.com/ammubhave/roslyn/providers"
	"github.com/ammubhave/roslyn/registry"
	"github.com/ammubhave/roslyn/structure"
)

var (
	flagConfig    string
	flagWorkspace string
	flagVerbose   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "roslyn",
		Short: "Block structure tooling: folding ranges and indentation guides",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("ROSLYN_CONFIG", ""), "Path to the YAML config file")
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "Workspace root")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log provider activity to stderr")

	root.AddCommand(newServeCmd(), newInspectCmd(), newIndexCmd(), newLanguagesCmd())
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// runtime bundles everything a command needs to compute block structures.
type runtime struct {
	cfg      config.Config
	resolver *structure.Resolver
	registry *registry.Registry
	service  *structure.Service
	logger   *log.Logger
}

func buildRuntime() (*runtime, error) {
	logger := log.New(io.Discard, "", 0)
	if flagVerbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagWorkspace != "." {
		cfg.Workspace = flagWorkspace
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	reg := registry.New(registry.Options{Paths: cfg.RegistryPaths, Logger: logger})
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("load provider registry: %w", err)
	}

	resolver := structure.NewResolver(reg)
	providers.RegisterBuiltins(resolver)

	// Registry reloads obsolete cached provider lists.
	go func() {
		for range reg.Watch() {
			resolver.Invalidate()
		}
	}()

	return &runtime{
		cfg:      cfg,
		resolver: resolver,
		registry: reg,
		service:  structure.NewService(resolver, logger),
		logger:   logger,
	}, nil
}
