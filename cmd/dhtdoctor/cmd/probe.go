package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richardbrown-dev/dht-doctor/internal/report"
	"github.com/richardbrown-dev/dht-doctor/internal/session"
)

var probeCmd = &cobra.Command{
	Use:   "probe [host...]",
	Short: "Check reachability of the DHT bootstrap routers",
	Long: `Ping the configured bootstrap routers (or the hosts given as arguments)
without running the crawler. Useful for separating network problems from
crawler problems.`,
	RunE: runProbe,
}

var probeParallel int

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().IntVar(&probeParallel, "parallel", 0,
		"probe this many hosts concurrently (default: sequential)")
}

func runProbe(_ *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if len(args) > 0 {
		cfg.Probe.Targets = args
	}
	if probeParallel > 0 {
		cfg.Probe.Parallel = probeParallel
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := session.New(cfg, logger).ProbeEndpoints(ctx)

	renderer := report.NewRenderer(cfg.Report.NoColor)
	fmt.Print(renderer.RenderEndpoints(results))
	return nil
}
