package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAppended_EmitsCompleteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\npart"), 0o644))

	m := New(Options{}, nil)
	var got []string
	offset, pending := m.readAppended(path, 0, nil, func(line string) bool {
		got = append(got, line)
		return true
	})

	assert.Equal(t, []string{"one", "two"}, got)
	assert.Equal(t, "part", string(pending), "partial line carries over")
	assert.Equal(t, int64(len("one\r\ntwo\npart")), offset)

	// The carried fragment completes once its newline arrives.
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\npartial\n"), 0o644))
	got = nil
	_, pending = m.readAppended(path, offset, pending, func(line string) bool {
		got = append(got, line)
		return true
	})
	assert.Equal(t, []string{"partial"}, got)
	assert.Empty(t, pending)
}

func TestReadAppended_StopsWhenEmitRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	m := New(Options{}, nil)
	emitted := 0
	m.readAppended(path, 0, nil, func(string) bool {
		emitted++
		return emitted < 10
	})

	assert.Equal(t, 10, emitted, "a rejecting emit must end the flush")
}

func TestMonitor_TailBacklogDoesNotHang(t *testing.T) {
	// The crawler dumps far more log lines than the line channel buffers and
	// exits immediately; the run must still complete promptly.
	logFile := filepath.Join(t.TempDir(), "crawler.log")
	path := writeScript(t, `
i=0
while [ $i -lt 200 ]; do
  echo "backlog line $i" >> `+logFile+`
  i=$((i+1))
done
exit 0
`)

	m := New(Options{Deadline: 15 * time.Second, Grace: time.Second}, nil)
	start := time.Now()
	res, err := m.Run(context.Background(), Command{Path: path, LogFile: logFile})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	require.NotNil(t, res.ExitCode)
	assert.Positive(t, res.LineCount)
}
