// Package probe issues bounded reachability checks against well-known
// network endpoints using the system ping tool.
package probe

import (
	"context"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
	"github.com/richardbrown-dev/dht-doctor/internal/logging"
)

const (
	// DefaultTimeout bounds one echo attempt.
	DefaultTimeout = 3 * time.Second
	// launchOverhead is the extra slack given to the ping process itself on
	// top of its own reply deadline.
	launchOverhead = 2 * time.Second
)

// Pinger runs single-echo reachability probes.
type Pinger struct {
	timeout time.Duration
	logger  *logging.Logger
}

// New creates a pinger. A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration, logger *logging.Logger) *Pinger {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pinger{timeout: timeout, logger: logger.WithComponent("probe")}
}

// Probe sends one echo request to host. The outcome is tri-state:
//
//   - Reachable: the echo was answered.
//   - Unreachable: a clean negative (no reply within the timeout, no route).
//   - Inconclusive: the probe itself could not run (tool missing, permission
//     denied) — a local execution problem, not network truth.
//
// Probe never blocks past the timeout plus a small fixed overhead and never
// returns an error; every failure mode resolves to one of the outcomes.
func (p *Pinger) Probe(ctx context.Context, host string) core.EndpointResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout+launchOverhead)
	defer cancel()

	start := time.Now()
	// #nosec G204 -- host comes from validated config
	cmd := exec.CommandContext(ctx, "ping", pingArgs(host, p.timeout)...)
	err := cmd.Run() // only the exit code matters
	elapsed := time.Since(start)

	outcome := core.OutcomeReachable
	switch {
	case err == nil:
	case isExitError(err):
		// ping ran and reported failure (includes being killed at the
		// context deadline: still no reply within the timeout).
		outcome = core.OutcomeUnreachable
	default:
		outcome = core.OutcomeInconclusive
	}

	p.logger.Debug("endpoint probed",
		"host", host,
		"outcome", string(outcome),
		"elapsed", elapsed,
	)
	return core.EndpointResult{Host: host, Outcome: outcome, Elapsed: elapsed}
}

// Battery probes each host, preserving input order in the results. With
// parallel > 1 probes run concurrently under that limit; the calls share no
// mutable state, so this is safe. parallel <= 1 runs them sequentially.
func (p *Pinger) Battery(ctx context.Context, hosts []string, parallel int) []core.EndpointResult {
	results := make([]core.EndpointResult, len(hosts))

	if parallel <= 1 {
		for i, host := range hosts {
			results[i] = p.Probe(ctx, host)
		}
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, host := range hosts {
		i, host := i, host
		g.Go(func() error {
			results[i] = p.Probe(ctx, host)
			return nil
		})
	}
	_ = g.Wait() // probes never return errors
	return results
}

func isExitError(err error) bool {
	_, ok := err.(*exec.ExitError)
	return ok
}
