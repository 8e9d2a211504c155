// Package config defines and loads the dht-doctor configuration.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Report  ReportConfig  `mapstructure:"report"`
	Serve   ServeConfig   `mapstructure:"serve"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CrawlerConfig describes how to invoke the crawler under diagnosis. The
// credential fields are opaque pass-through strings for the crawler's own
// flags; dht-doctor does not interpret them.
type CrawlerConfig struct {
	// Candidates is the ordered executable search list; the first path that
	// exists wins.
	Candidates []string `mapstructure:"candidates"`
	WorkDir    string   `mapstructure:"workdir"`

	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`

	// Target is the info-hash handed to the crawler's --metadata flag.
	Target string `mapstructure:"target"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`

	// LogFile, when set, is passed to the crawler and tailed alongside the
	// console streams.
	LogFile string `mapstructure:"log_file"`

	// ExtraArgs are appended to the invocation verbatim.
	ExtraArgs []string `mapstructure:"extra_args"`
}

// MonitorConfig bounds the monitored run.
type MonitorConfig struct {
	Deadline     time.Duration `mapstructure:"deadline"`
	Grace        time.Duration `mapstructure:"grace"`
	MaxAnomalies int           `mapstructure:"max_anomalies"`
}

// ProbeConfig configures the reachability battery.
type ProbeConfig struct {
	Targets  []string      `mapstructure:"targets"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Parallel int           `mapstructure:"parallel"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	// Output is an optional file path; empty means stdout only.
	Output string `mapstructure:"output"`
	// Format applies to Output: text, json, or yaml.
	Format string `mapstructure:"format"`
	// Copy puts the rendered text report on the system clipboard.
	Copy    bool `mapstructure:"copy"`
	NoColor bool `mapstructure:"no_color"`
}

// ServeConfig configures the HTTP diagnosis endpoint.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}
