package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/config"
	"github.com/nikbrunner/rl/internal/httpserver"
	"github.com/nikbrunner/rl/internal/httpserver/deps"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the share endpoint and item API over HTTP",
	Long: `Serve the share endpoint and item API over HTTP.

POST a URL to /api/share (JSON {"url", "title", "text"} or form values) to
capture it into the Inbox, e.g. from a browser bookmarklet or a phone
shortcut.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("listen") {
			addr, _ = cmd.Flags().GetString("listen")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		srv := httpserver.New(addr, deps.Deps{
			Library:   a.lib,
			Logger:    log,
			StartTime: time.Now(),
			Version:   version,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from "+config.KeyServerAddr+")")
}
