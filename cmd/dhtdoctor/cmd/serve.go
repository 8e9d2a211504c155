package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richardbrown-dev/dht-doctor/internal/session"
	"github.com/richardbrown-dev/dht-doctor/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose diagnosis over HTTP",
	Long: `Start a small HTTP server. POST /api/diagnose triggers a full session
and returns the report as JSON; GET /api/probe runs only the reachability
battery. Diagnose requests are serialized: one crawler at a time.

Examples:
  # Serve on the default loopback address
  dht-doctor serve

  # Serve on another address
  dht-doctor serve --addr 0.0.0.0:9000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: 127.0.0.1:8787)")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := session.New(cfg, logger)
	server := web.New(cfg.Serve.Addr, runner, logger)

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
