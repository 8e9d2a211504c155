package core

import "time"

// Outcome is the tri-state result of one reachability probe.
type Outcome string

const (
	OutcomeReachable    Outcome = "reachable"
	OutcomeUnreachable  Outcome = "unreachable"
	OutcomeInconclusive Outcome = "inconclusive"
)

// EndpointResult holds the outcome of probing one well-known endpoint.
type EndpointResult struct {
	Host    string        `json:"host" yaml:"host"`
	Outcome Outcome       `json:"outcome" yaml:"outcome"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// AdviceBlock is the fixed remediation guidance attached for one missing
// signal. Content is keyed purely by the missing kind, never by anomaly text.
type AdviceBlock struct {
	Signal      SignalKind `json:"signal" yaml:"signal"`
	Title       string     `json:"title" yaml:"title"`
	Suggestions []string   `json:"suggestions" yaml:"suggestions"`
}

// EnvSnapshot captures best-effort host environment context recorded in the
// report header. Zero values mean the metric could not be collected.
type EnvSnapshot struct {
	Hostname      string  `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OS            string  `json:"os,omitempty" yaml:"os,omitempty"`
	CPUCount      int     `json:"cpu_count,omitempty" yaml:"cpu_count,omitempty"`
	MemTotalMB    float64 `json:"mem_total_mb,omitempty" yaml:"mem_total_mb,omitempty"`
	MemUsedPct    float64 `json:"mem_used_pct,omitempty" yaml:"mem_used_pct,omitempty"`
	LoadAvg1      float64 `json:"load_avg_1,omitempty" yaml:"load_avg_1,omitempty"`
	NetInterfaces int     `json:"net_interfaces,omitempty" yaml:"net_interfaces,omitempty"`
}

// Report is the immutable outcome of one diagnostic session. It is
// constructed once, after the monitored run and the probe battery finish,
// and never mutated afterwards.
type Report struct {
	SessionID  string    `json:"session_id" yaml:"session_id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Command is the crawler invocation, with credential values redacted.
	Command []string `json:"command" yaml:"command"`

	Signals   SignalSet `json:"signals" yaml:"signals"`
	ExitCode  *int      `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`
	LineCount int       `json:"line_count" yaml:"line_count"`

	AnomalyLines       []string `json:"anomaly_lines,omitempty" yaml:"anomaly_lines,omitempty"`
	AnomaliesTruncated bool     `json:"anomalies_truncated,omitempty" yaml:"anomalies_truncated,omitempty"`

	Advice    []AdviceBlock    `json:"advice,omitempty" yaml:"advice,omitempty"`
	Endpoints []EndpointResult `json:"endpoints" yaml:"endpoints"`

	Environment EnvSnapshot `json:"environment" yaml:"environment"`
}

// Duration returns the wall-clock span of the session.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
