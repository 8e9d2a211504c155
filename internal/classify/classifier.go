// Package classify maps crawler log lines to health signals.
//
// The crawler emits unstructured text; the only contract is a small substring
// vocabulary. Rules are kept in a fixed ordered table so the behavior is
// reproducible and extensible without touching control flow.
package classify

import (
	"strings"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// Result is the outcome of classifying one log line.
type Result struct {
	Signals core.SignalSet
	// Anomaly marks lines containing failure vocabulary. It is orthogonal to
	// signal detection: a line can both set a signal and be anomalous.
	Anomaly bool
}

// Rule matches one line of text against a signal kind. A line matches when
// every Need substring appears, at least one Any substring appears (when Any
// is non-empty), and at least one Exact substring appears (when Exact is
// non-empty). Need and Any are case-insensitive; Exact is case-sensitive.
type Rule struct {
	Kind  core.SignalKind
	Need  []string
	Any   []string
	Exact []string
}

func (r Rule) matches(line, lower string) bool {
	for _, s := range r.Need {
		if !strings.Contains(lower, s) {
			return false
		}
	}
	if len(r.Any) > 0 {
		found := false
		for _, s := range r.Any {
			if strings.Contains(lower, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(r.Exact) > 0 {
		found := false
		for _, s := range r.Exact {
			if strings.Contains(line, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// rules is the fixed signal vocabulary, in evaluation order. Rules are
// non-exclusive: a single line may trigger several of them.
var rules = []Rule{
	{Kind: core.SignalBootstrap, Exact: []string{"DHT Bootstrap completed"}},
	{Kind: core.SignalPeers, Need: []string{"peers"}, Any: []string{"found", "reply", "discovered"}},
	{Kind: core.SignalMetadata, Any: []string{"metadata request", "queued metadata"}},
	{Kind: core.SignalAlerts, Any: []string{"alert"}},
	{Kind: core.SignalAlerts, Need: []string{"processing", "alerts"}},
}

// anomalyMarkers flag lines worth surfacing in the report. Known to
// false-positive on benign text mentioning error handling; that matches the
// crawler's observed output contract.
var anomalyMarkers = []string{"failed", "error"}

// Line classifies one line of crawler output. It is a pure function: no
// state, same input always yields the same result, and it never fails on
// arbitrary bytes (matching is byte-level on the lowered string).
func Line(line string) Result {
	var res Result
	if line == "" {
		return res
	}
	lower := strings.ToLower(line)

	for _, r := range rules {
		if r.matches(line, lower) {
			res.Signals.Set(r.Kind)
		}
	}
	for _, m := range anomalyMarkers {
		if strings.Contains(lower, m) {
			res.Anomaly = true
			break
		}
	}
	return res
}
