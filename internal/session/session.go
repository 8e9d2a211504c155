// Package session orchestrates one end-to-end diagnostic run: resolve the
// crawler, monitor it under a deadline, probe the well-known endpoints, and
// assemble the report.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/richardbrown-dev/dht-doctor/internal/config"
	"github.com/richardbrown-dev/dht-doctor/internal/core"
	"github.com/richardbrown-dev/dht-doctor/internal/diagnostics"
	"github.com/richardbrown-dev/dht-doctor/internal/logging"
	"github.com/richardbrown-dev/dht-doctor/internal/monitor"
	"github.com/richardbrown-dev/dht-doctor/internal/probe"
)

// Runner executes diagnostic sessions. One Run call is one definitive pass;
// there are no retries at this layer, and re-running is the caller's call.
type Runner struct {
	cfg    *config.Config
	logger *logging.Logger
	sink   monitor.LineSink
}

// New creates a session runner.
func New(cfg *config.Config, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// WithSink sets a callback receiving each crawler output line in real time.
func (r *Runner) WithSink(sink monitor.LineSink) *Runner {
	r.sink = sink
	return r
}

// Run performs one diagnostic session. Only a spawn failure (crawler missing
// or unstartable) returns an error; missing signals, anomalies, stream
// problems, and unreachable endpoints are findings inside the report.
func (r *Runner) Run(ctx context.Context) (*core.Report, error) {
	sessionID := uuid.NewString()
	logger := r.logger.WithSession(sessionID)
	started := time.Now()

	crawlerPath, err := ResolveExecutable(r.cfg.Crawler.Candidates, r.cfg.Crawler.WorkDir)
	if err != nil {
		return nil, err
	}
	args := buildArgs(r.cfg.Crawler)

	logger.Info("session: starting diagnostic",
		"crawler", crawlerPath,
		"deadline", r.cfg.Monitor.Deadline,
	)

	mon := monitor.New(monitor.Options{
		Deadline:     r.cfg.Monitor.Deadline,
		Grace:        r.cfg.Monitor.Grace,
		MaxAnomalies: r.cfg.Monitor.MaxAnomalies,
		Sink:         r.sink,
	}, logger)

	res, err := mon.Run(ctx, monitor.Command{
		Path:    crawlerPath,
		Args:    args,
		Dir:     r.cfg.Crawler.WorkDir,
		LogFile: r.cfg.Crawler.LogFile,
	})
	if err != nil {
		return nil, err
	}

	endpoints := r.ProbeEndpoints(ctx)

	report := &core.Report{
		SessionID:          sessionID,
		StartedAt:          started,
		FinishedAt:         time.Now(),
		Command:            logger.SanitizeArgs(append([]string{crawlerPath}, args...)),
		Signals:            res.Signals,
		ExitCode:           res.ExitCode,
		LineCount:          res.LineCount,
		AnomalyLines:       res.AnomalyLines,
		AnomaliesTruncated: res.AnomaliesTruncated,
		Advice:             AdviceFor(res.Signals),
		Endpoints:          endpoints,
		Environment:        diagnostics.Collect(),
	}

	logger.Info("session: diagnostic complete",
		"all_observed", report.Signals.AllObserved(),
		"anomalies", len(report.AnomalyLines),
		"duration", report.Duration(),
	)
	return report, nil
}

// ProbeEndpoints runs only the reachability battery.
func (r *Runner) ProbeEndpoints(ctx context.Context) []core.EndpointResult {
	pinger := probe.New(r.cfg.Probe.Timeout, r.logger)
	return pinger.Battery(ctx, r.cfg.Probe.Targets, r.cfg.Probe.Parallel)
}

// buildArgs assembles the crawler invocation. Credential values are passed
// through verbatim; their semantics belong to the crawler.
func buildArgs(c config.CrawlerConfig) []string {
	args := []string{
		"--user", c.User,
		"--password", c.Password,
		"--database", c.Database,
		"--metadata", c.Target,
	}
	if c.Debug {
		args = append(args, "--debug")
	}
	if c.Verbose {
		args = append(args, "--verbose")
	}
	if c.LogFile != "" {
		args = append(args, "--log-file", c.LogFile)
	}
	return append(args, c.ExtraArgs...)
}
