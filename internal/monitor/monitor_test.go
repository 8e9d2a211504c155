package monitor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// writeScript drops an executable shell script into a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a unix shell")
	}
	path := filepath.Join(t.TempDir(), "fake_crawler.sh")
	script := "#!/bin/sh\n" + body
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestMonitor_NaturalExit(t *testing.T) {
	path := writeScript(t, `
echo "DHT Bootstrap completed"
echo "12 peers found"
echo "sending metadata request" >&2
echo "processing alerts"
exit 0
`)

	m := New(Options{Deadline: 10 * time.Second, Grace: time.Second}, nil)
	res, err := m.Run(context.Background(), Command{Path: path})
	require.NoError(t, err)

	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 0, *res.ExitCode)
	assert.True(t, res.Signals.AllObserved(), "signals: %+v", res.Signals)
	assert.GreaterOrEqual(t, res.LineCount, 4)
	assert.Empty(t, res.AnomalyLines)
}

func TestMonitor_NonZeroExit(t *testing.T) {
	path := writeScript(t, `
echo "bootstrap failed: no nodes"
exit 3
`)

	m := New(Options{Deadline: 10 * time.Second, Grace: time.Second}, nil)
	res, err := m.Run(context.Background(), Command{Path: path})
	require.NoError(t, err)

	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 3, *res.ExitCode)
	require.Len(t, res.AnomalyLines, 1)
	assert.Contains(t, res.AnomalyLines[0], "failed")
}

func TestMonitor_DeadlineTerminates(t *testing.T) {
	path := writeScript(t, `
echo "DHT Bootstrap completed"
sleep 30
`)

	m := New(Options{Deadline: 500 * time.Millisecond, Grace: 500 * time.Millisecond}, nil)

	start := time.Now()
	res, err := m.Run(context.Background(), Command{Path: path})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 10*time.Second, "monitor must not wait out the sleep")
	assert.True(t, res.Signals.Bootstrap)
	// The crawler was signalled, so it was reaped with a non-zero status.
	require.NotNil(t, res.ExitCode)
	assert.NotEqual(t, 0, *res.ExitCode)
}

func TestMonitor_ForceKillWhenTermIgnored(t *testing.T) {
	// The shell ignores SIGTERM and its children inherit that disposition,
	// so only the forced kill after the grace period can end the run.
	path := writeScript(t, `
trap '' TERM
echo "DHT Bootstrap completed"
sleep 30
`)

	m := New(Options{Deadline: 500 * time.Millisecond, Grace: 500 * time.Millisecond}, nil)

	start := time.Now()
	res, err := m.Run(context.Background(), Command{Path: path})
	elapsed := time.Since(start)

	require.NoError(t, err)
	// Bounded by deadline + grace + reap timeout plus scheduling slack.
	assert.Less(t, elapsed, 5*time.Second)
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
	assert.True(t, res.Signals.Bootstrap)
	require.NotNil(t, res.ExitCode, "child must be reaped even when it ignores the graceful signal")
	assert.NotEqual(t, 0, *res.ExitCode)
}

func TestMonitor_ContextCancelTerminates(t *testing.T) {
	path := writeScript(t, `sleep 30`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	m := New(Options{Deadline: time.Minute, Grace: 500 * time.Millisecond}, nil)
	start := time.Now()
	res, err := m.Run(ctx, Command{Path: path})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	require.NotNil(t, res.ExitCode)
}

func TestMonitor_SpawnFailure(t *testing.T) {
	m := New(Options{}, nil)

	_, err := m.Run(context.Background(), Command{Path: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.True(t, core.IsSpawnFailure(err))

	_, err = m.Run(context.Background(), Command{})
	require.Error(t, err)
	assert.True(t, core.IsSpawnFailure(err))
}

func TestMonitor_AnomalyCap(t *testing.T) {
	path := writeScript(t, `
i=0
while [ $i -lt 10 ]; do
  echo "error: something broke $i"
  i=$((i+1))
done
exit 0
`)

	m := New(Options{Deadline: 10 * time.Second, Grace: time.Second, MaxAnomalies: 3}, nil)
	res, err := m.Run(context.Background(), Command{Path: path})
	require.NoError(t, err)

	assert.Len(t, res.AnomalyLines, 3)
	assert.True(t, res.AnomaliesTruncated)
	assert.Equal(t, 10, res.LineCount)
}

func TestMonitor_SinkSeesEveryLine(t *testing.T) {
	path := writeScript(t, `
echo "one"
echo "two"
exit 0
`)

	var mu sync.Mutex
	var seen []string
	sink := func(line string) {
		mu.Lock()
		seen = append(seen, line)
		mu.Unlock()
	}

	m := New(Options{Deadline: 10 * time.Second, Grace: time.Second, Sink: sink}, nil)
	_, err := m.Run(context.Background(), Command{Path: path})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"one", "two"}, seen)
}

func TestMonitor_TailsLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "crawler.log")
	path := writeScript(t, `
echo "DHT Bootstrap completed" > `+logFile+`
echo "12 peers found" >> `+logFile+`
sleep 2
exit 0
`)

	m := New(Options{Deadline: 15 * time.Second, Grace: time.Second}, nil)
	res, err := m.Run(context.Background(), Command{Path: path, LogFile: logFile})
	require.NoError(t, err)

	assert.True(t, res.Signals.Bootstrap, "bootstrap line only exists in the log file")
	assert.True(t, res.Signals.Peers)
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultDeadline, o.Deadline)
	assert.Equal(t, DefaultGrace, o.Grace)
	assert.Equal(t, DefaultMaxAnomalies, o.MaxAnomalies)

	o = Options{Deadline: time.Second, Grace: 2 * time.Second, MaxAnomalies: 5}.withDefaults()
	assert.Equal(t, time.Second, o.Deadline)
	assert.Equal(t, 2*time.Second, o.Grace)
	assert.Equal(t, 5, o.MaxAnomalies)
}
