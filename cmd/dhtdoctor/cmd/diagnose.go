package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/richardbrown-dev/dht-doctor/internal/report"
	"github.com/richardbrown-dev/dht-doctor/internal/session"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run a full crawler diagnosis",
	Long: `Run the crawler for the monitoring window, classify its output, probe
the bootstrap routers, and print a report with recommended fixes.

Examples:
  # Full diagnosis with defaults (120s window)
  dht-doctor diagnose

  # Quick pass for iterating on a fix
  dht-doctor diagnose --quick

  # Persist a machine-readable report
  dht-doctor diagnose --output report.json --format json`,
	RunE: runDiagnose,
}

var (
	diagQuick    bool
	diagDeadline time.Duration
	diagCrawler  string
	diagOutput   string
	diagFormat   string
	diagCopy     bool
)

// quickDeadline is the shortened monitoring window for --quick: long enough
// for bootstrap and first peers, short enough for an edit-run loop.
const quickDeadline = 30 * time.Second

func init() {
	rootCmd.AddCommand(diagnoseCmd)

	diagnoseCmd.Flags().BoolVar(&diagQuick, "quick", false,
		"shorten the monitoring window to 30s")
	diagnoseCmd.Flags().DurationVar(&diagDeadline, "deadline", 0,
		"override the monitoring window")
	diagnoseCmd.Flags().StringVar(&diagCrawler, "crawler", "",
		"explicit crawler executable path (skips candidate search)")
	diagnoseCmd.Flags().StringVarP(&diagOutput, "output", "o", "",
		"write the report to a file")
	diagnoseCmd.Flags().StringVar(&diagFormat, "format", "",
		"report file format (text, json, yaml)")
	diagnoseCmd.Flags().BoolVar(&diagCopy, "copy", false,
		"copy the rendered report to the clipboard")
}

func runDiagnose(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if diagQuick {
		cfg.Monitor.Deadline = quickDeadline
	}
	if diagDeadline > 0 {
		cfg.Monitor.Deadline = diagDeadline
	}
	if diagCrawler != "" {
		cfg.Crawler.Candidates = []string{diagCrawler}
	}
	if diagOutput != "" {
		cfg.Report.Output = diagOutput
	}
	if diagFormat != "" {
		cfg.Report.Format = diagFormat
	}
	if diagCopy {
		cfg.Report.Copy = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := session.New(cfg, logger)
	if !quiet {
		runner = runner.WithSink(func(line string) {
			fmt.Fprintln(os.Stderr, line)
		})
	}

	rep, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(cfg.Report.NoColor)
	rendered := renderer.Render(rep)
	fmt.Print(rendered)

	if cfg.Report.Output != "" {
		if err := report.WriteFile(cfg.Report.Output, cfg.Report.Format, rep, rendered); err != nil {
			return err
		}
		logger.Info("report written", "path", cfg.Report.Output, "format", cfg.Report.Format)
	}
	if cfg.Report.Copy {
		if err := report.CopyToClipboard(rendered); err != nil {
			logger.Warn("clipboard copy failed", "error", err)
		}
	}
	return nil
}
