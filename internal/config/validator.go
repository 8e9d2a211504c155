package config

import (
	"fmt"
	"strings"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateCrawler(&cfg.Crawler)
	v.validateMonitor(&cfg.Monitor)
	v.validateProbe(&cfg.Probe)
	v.validateReport(&cfg.Report)
	v.validateServe(&cfg.Serve)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *Validator) addError(field string, value interface{}, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Value: value, Message: message})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
	default:
		v.addError("log.level", cfg.Level, "must be one of debug, info, warn, error")
	}
	switch cfg.Format {
	case "", "auto", "text", "json":
	default:
		v.addError("log.format", cfg.Format, "must be one of auto, text, json")
	}
}

func (v *Validator) validateCrawler(cfg *CrawlerConfig) {
	if len(cfg.Candidates) == 0 {
		v.addError("crawler.candidates", cfg.Candidates, "at least one candidate path is required")
	}
	for i, c := range cfg.Candidates {
		if strings.TrimSpace(c) == "" {
			v.addError(fmt.Sprintf("crawler.candidates[%d]", i), c, "must not be empty")
		}
	}
	if strings.TrimSpace(cfg.Target) == "" {
		v.addError("crawler.target", cfg.Target, "an info-hash target is required")
	}
}

func (v *Validator) validateMonitor(cfg *MonitorConfig) {
	if cfg.Deadline <= 0 {
		v.addError("monitor.deadline", cfg.Deadline, "must be positive")
	}
	if cfg.Grace <= 0 {
		v.addError("monitor.grace", cfg.Grace, "must be positive")
	}
	if cfg.MaxAnomalies < 0 {
		v.addError("monitor.max_anomalies", cfg.MaxAnomalies, "must not be negative")
	}
}

func (v *Validator) validateProbe(cfg *ProbeConfig) {
	if len(cfg.Targets) == 0 {
		v.addError("probe.targets", cfg.Targets, "at least one endpoint is required")
	}
	if cfg.Timeout <= 0 {
		v.addError("probe.timeout", cfg.Timeout, "must be positive")
	}
	if cfg.Parallel < 0 {
		v.addError("probe.parallel", cfg.Parallel, "must not be negative")
	}
}

func (v *Validator) validateReport(cfg *ReportConfig) {
	switch cfg.Format {
	case "", "text", "json", "yaml":
	default:
		v.addError("report.format", cfg.Format, "must be one of text, json, yaml")
	}
}

func (v *Validator) validateServe(cfg *ServeConfig) {
	if strings.TrimSpace(cfg.Addr) == "" {
		v.addError("serve.addr", cfg.Addr, "listen address must not be empty")
	}
}

// ValidateConfig is a convenience wrapper. Failures surface as a validation
// domain error carrying the per-field errors as its cause.
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return core.ErrValidation(core.CodeInvalidConfig, "invalid configuration").WithCause(err)
	}
	return nil
}
