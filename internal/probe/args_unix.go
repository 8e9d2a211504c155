//go:build !windows && !darwin

package probe

import (
	"strconv"
	"time"
)

// pingArgs builds a single-echo invocation. Linux-style ping takes its reply
// deadline in whole seconds via -W.
func pingArgs(host string, timeout time.Duration) []string {
	secs := int((timeout + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return []string{"-c", "1", "-W", strconv.Itoa(secs), host}
}
