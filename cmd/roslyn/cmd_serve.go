package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ammubhave/roslyn/server"
)

func newServeCmd() *cobra.Command {
	var watchInterval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the folding range LSP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			if watchInterval > 0 {
				stop := make(chan struct{})
				defer close(stop)
				rt.registry.StartWatcher(stop, watchInterval)
			}
			srv := server.NewLSPServer(rt.service, rt.cfg, rt.logger)
			return srv.ServeStdio(context.Background())
		},
	}
	cmd.Flags().DurationVar(&watchInterval, "watch", 2*time.Second, "Registry manifest poll interval (0 disables)")
	return cmd
}
