//go:build darwin

package probe

import (
	"strconv"
	"time"
)

// pingArgs builds a single-echo invocation. macOS ping takes its reply
// deadline in milliseconds via -W.
func pingArgs(host string, timeout time.Duration) []string {
	return []string{"-c", "1", "-W", strconv.Itoa(int(timeout.Milliseconds())), host}
}
