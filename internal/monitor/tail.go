package monitor

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// maxTailChunk bounds one catch-up read of the crawler log file.
const maxTailChunk = 1 << 20

// tailFile feeds lines appended to the crawler's own log file into the
// shared line channel. The file may not exist yet when the crawler starts,
// so the watch is on the parent directory. A slow ticker backs up fsnotify
// on filesystems that drop events.
func (m *Monitor) tailFile(path string, lines chan<- string, stop <-chan struct{}) {
	logger := m.logger.With("log_file", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("log tail unavailable", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("log tail unavailable", "error", err)
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var offset int64
	var pending []byte

	emit := func(line string) bool {
		lines <- line
		return true
	}
	read := func() {
		offset, pending = m.readAppended(path, offset, pending, emit)
	}
	read()

	for {
		select {
		case <-stop:
			// Final catch-up. The consumer stops draining shortly after it
			// signals stop, so bound every send instead of blocking on a
			// full channel.
			timer := time.NewTimer(drainTimeout)
			defer timer.Stop()
			m.readAppended(path, offset, pending, func(line string) bool {
				select {
				case lines <- line:
					return true
				case <-timer.C:
					return false
				}
			})
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name == path && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				read()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("log watch error", "error", werr)
		case <-ticker.C:
			read()
		}
	}
}

// readAppended reads content added to the file since offset and emits the
// complete lines it contains. A trailing partial line is carried over in
// pending until its newline arrives. emit returning false abandons the rest
// of the chunk.
func (m *Monitor) readAppended(path string, offset int64, pending []byte, emit func(string) bool) (int64, []byte) {
	f, err := os.Open(path) // #nosec G304 -- path comes from validated config
	if err != nil {
		return offset, pending
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return offset, pending
	}
	if info.Size() < offset {
		// Truncated or rotated; start over.
		offset = 0
		pending = nil
	}
	if info.Size() == offset {
		return offset, pending
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, pending
	}

	data, err := io.ReadAll(io.LimitReader(f, maxTailChunk))
	if len(data) == 0 {
		if err != nil {
			m.logger.Debug("log tail read error", "error", err)
		}
		return offset, pending
	}
	offset += int64(len(data))

	buf := append(pending, data...)
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(buf[:i]), "\r")
		buf = buf[i+1:]
		if !emit(line) {
			return offset, buf
		}
	}
	return offset, buf
}
