// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/georgegian2018/research-library-engine/internal/httpapi"
	"github.com/georgegian2018/research-library-engine/internal/library"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the duplicate report over HTTP",
	Long: `Serve starts an HTTP server with two endpoints:

  GET /dedup/report?threshold=0.85&project=&groups=false&exclude_doi=false
  GET /health

Reports are built from the library database on every request. The server
stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := httpapi.NewServer(store, cfg.Dedup, logger, httpapi.Options{
			Host: cfg.Serve.Host,
			Port: cfg.Serve.Port,
		})
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen address (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "listen port (default 8085)")

	mustBind("serve.host", serveCmd.Flags().Lookup("host"))
	mustBind("serve.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}
