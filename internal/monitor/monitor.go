// Package monitor owns the crawler child process lifecycle: spawn, bounded
// observation of its output streams, and guaranteed termination.
package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/richardbrown-dev/dht-doctor/internal/classify"
	"github.com/richardbrown-dev/dht-doctor/internal/core"
	"github.com/richardbrown-dev/dht-doctor/internal/logging"
)

const (
	// DefaultDeadline bounds a full diagnostic run.
	DefaultDeadline = 120 * time.Second
	// DefaultGrace is how long a terminated crawler gets before SIGKILL.
	DefaultGrace = 5 * time.Second
	// DefaultMaxAnomalies caps collected anomaly lines so a pathological
	// crawler cannot grow the report without bound.
	DefaultMaxAnomalies = 200

	// reapTimeout bounds the final wait after a force kill. Expiry means the
	// child could not be reaped; that is reported, not hidden.
	reapTimeout = 2 * time.Second
	// drainTimeout bounds the final sweep of buffered lines.
	drainTimeout = 500 * time.Millisecond
)

// LineSink receives each observed output line in real time.
type LineSink func(line string)

// Command describes one crawler invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string // extra KEY=VALUE pairs, applied on top of the environment

	// LogFile, when set, is additionally tailed for lines the crawler writes
	// to its own log file instead of the console.
	LogFile string
}

// Options configures a monitor.
type Options struct {
	Deadline     time.Duration
	Grace        time.Duration
	MaxAnomalies int
	Sink         LineSink
}

func (o Options) withDefaults() Options {
	if o.Deadline <= 0 {
		o.Deadline = DefaultDeadline
	}
	if o.Grace <= 0 {
		o.Grace = DefaultGrace
	}
	if o.MaxAnomalies <= 0 {
		o.MaxAnomalies = DefaultMaxAnomalies
	}
	return o
}

// Result aggregates everything observed during one monitored run.
type Result struct {
	Signals core.SignalSet

	// ExitCode is nil when the crawler could not be reaped before the
	// monitor returned.
	ExitCode *int

	AnomalyLines       []string
	AnomaliesTruncated bool
	LineCount          int
	Elapsed            time.Duration
}

// Monitor runs a crawler process and classifies its output until a deadline.
// It owns the child process handle for the duration of a Run call and
// guarantees the child does not outlive it.
type Monitor struct {
	opts   Options
	logger *logging.Logger
}

// New creates a monitor.
func New(opts Options, logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{opts: opts.withDefaults(), logger: logger.WithComponent("monitor")}
}

// Run spawns the crawler and observes it until natural exit, deadline, or
// stream end. Spawn failure is the only hard error; every in-flight problem
// degrades into the returned Result. On every exit path the child is
// terminated (graceful, then forced after the grace period) and reaped.
func (m *Monitor) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Path == "" {
		return nil, core.ErrSpawn(core.CodeCrawlerNotFound, "no crawler executable configured")
	}

	// #nosec G204 -- executable path and args come from validated config
	c := exec.Command(cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	configureProcAttr(c)

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, core.ErrSpawn(core.CodeStartFailed, "creating stdout pipe").WithCause(err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return nil, core.ErrSpawn(core.CodeStartFailed, "creating stderr pipe").WithCause(err)
	}

	if err := c.Start(); err != nil {
		// Close pipes explicitly: exec only does it after a successful Start.
		_ = stdout.Close()
		_ = stderr.Close()
		return nil, core.ErrSpawn(core.CodeStartFailed, fmt.Sprintf("starting %s", cmd.Path)).WithCause(err)
	}

	m.logger.Info("crawler started",
		"pid", c.Process.Pid,
		"path", cmd.Path,
		"deadline", m.opts.Deadline,
	)

	lines := make(chan string, 64)

	// pipeReaders gates Wait (pipe reads must complete first); allReaders
	// additionally covers the log tailer and gates closing the line channel.
	var pipeReaders, allReaders sync.WaitGroup
	scan := func(r io.Reader, name string) {
		defer pipeReaders.Done()
		defer allReaders.Done()
		m.scanStream(r, name, lines)
	}
	pipeReaders.Add(2)
	allReaders.Add(2)
	go scan(stdout, "stdout")
	go scan(stderr, "stderr")

	var tailStop chan struct{}
	if cmd.LogFile != "" {
		tailStop = make(chan struct{})
		allReaders.Add(1)
		go func() {
			defer allReaders.Done()
			m.tailFile(cmd.LogFile, lines, tailStop)
		}()
	}

	waitCh := make(chan error, 1)
	go func() {
		pipeReaders.Wait()
		waitCh <- c.Wait()
	}()
	go func() {
		allReaders.Wait()
		close(lines)
	}()

	res := &Result{}
	start := time.Now()
	deadline := time.NewTimer(m.opts.Deadline)
	defer deadline.Stop()

	exited := false
	var waitErr error

loop:
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// Every source ended. Either the process exited or reading
				// failed; in both cases there is nothing left to observe.
				break loop
			}
			m.observe(res, line)
		case waitErr = <-waitCh:
			exited = true
			break loop
		case <-deadline.C:
			m.logger.Warn("deadline reached, stopping observation", "deadline", m.opts.Deadline)
			break loop
		case <-ctx.Done():
			m.logger.Warn("context cancelled, stopping observation")
			break loop
		}
	}

	if tailStop != nil {
		close(tailStop)
	}
	if !exited {
		waitErr, exited = m.shutdown(c, waitCh, lines, res)
	}
	m.drainRemaining(lines, res)

	res.Elapsed = time.Since(start)
	if exited {
		code := exitCode(waitErr)
		res.ExitCode = &code
		m.logger.Info("crawler reaped",
			"exit_code", code,
			"lines", res.LineCount,
			"elapsed", res.Elapsed,
		)
	}
	return res, nil
}

// shutdown terminates a still-running crawler: graceful signal, grace period,
// forced kill. It keeps draining lines throughout so the readers can finish
// and the process can be reaped. Returns the Wait error and whether the
// process was actually reaped.
func (m *Monitor) shutdown(c *exec.Cmd, waitCh <-chan error, lines <-chan string, res *Result) (error, bool) {
	if err := terminateProcess(c); err != nil {
		m.logger.Debug("graceful termination signal failed", "error", err)
	}

	if err, ok := m.awaitExit(waitCh, lines, res, m.opts.Grace); ok {
		return err, true
	}

	m.logger.Warn("grace period expired, force killing crawler", "grace", m.opts.Grace)
	if err := killProcess(c); err != nil {
		m.logger.Error("force kill failed, child process may leak",
			"pid", c.Process.Pid,
			"error", core.ErrExecution(core.CodeKillFailed, "force killing crawler").WithCause(err),
		)
	}

	if err, ok := m.awaitExit(waitCh, lines, res, reapTimeout); ok {
		return err, true
	}
	m.logger.Error("crawler not reaped before timeout", "pid", c.Process.Pid)
	return nil, false
}

// awaitExit waits for the process to be reaped, consuming lines so the
// readers never block on a full channel, up to timeout.
func (m *Monitor) awaitExit(waitCh <-chan error, lines <-chan string, res *Result, timeout time.Duration) (error, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil // closed; select on nil blocks
				continue
			}
			m.observe(res, line)
		case err := <-waitCh:
			return err, true
		case <-timer.C:
			return nil, false
		}
	}
}

// drainRemaining sweeps lines still buffered after the process is gone.
func (m *Monitor) drainRemaining(lines <-chan string, res *Result) {
	timer := time.NewTimer(drainTimeout)
	defer timer.Stop()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			m.observe(res, line)
		case <-timer.C:
			return
		}
	}
}

// observe classifies one line and folds the result into the running state.
func (m *Monitor) observe(res *Result, line string) {
	res.LineCount++
	if m.opts.Sink != nil {
		m.opts.Sink(line)
	}

	cls := classify.Line(line)
	before := res.Signals
	res.Signals.Merge(cls.Signals)
	for _, kind := range core.AllSignals() {
		if res.Signals.Has(kind) && !before.Has(kind) {
			m.logger.Info("milestone observed", "signal", string(kind))
		}
	}

	if cls.Anomaly {
		if len(res.AnomalyLines) < m.opts.MaxAnomalies {
			res.AnomalyLines = append(res.AnomalyLines, line)
		} else {
			res.AnomaliesTruncated = true
		}
	}
}

// scanStream pushes lines from one pipe into the shared channel until EOF or
// a read error. A read error only ends this stream; the monitor keeps going
// with whatever the other sources still deliver.
func (m *Monitor) scanStream(r io.Reader, name string, lines chan<- string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		m.logger.Warn("stream read error", "stream", name, "error", err)
	}
}

func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
