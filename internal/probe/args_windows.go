//go:build windows

package probe

import (
	"strconv"
	"time"
)

// pingArgs builds a single-echo invocation. Windows ping takes its reply
// deadline in milliseconds via -w.
func pingArgs(host string, timeout time.Duration) []string {
	return []string{"-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds())), host}
}
