package logging

import (
	"regexp"
	"slices"
)

// Sanitizer redacts credentials from log messages. The crawler receives its
// database credentials on the command line, and the monitor echoes both the
// invocation and raw crawler output, so everything logged passes through here.
type Sanitizer struct {
	patterns []*regexp.Regexp
	redacted string
}

// secretFlags are argv flags whose following value must never be logged.
var secretFlags = []string{"--password", "--user", "--database"}

// NewSanitizer creates a sanitizer with default patterns.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns: defaultPatterns(),
		redacted: "[REDACTED]",
	}
}

func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// Crawler credential flags in rendered command lines
		`(?i)(--password[=\s]+)[^\s"']+`,
		`(?i)(--user[=\s]+)[^\s"']+`,
		`(?i)(--database[=\s]+)[^\s"']+`,
		// MySQL-style DSNs (user:pass@tcp(...))
		`([A-Za-z0-9_]+:)[^\s@]+(@(tcp|unix)\()`,
		// Generic passwords and tokens in free-form text
		`(?i)(password["'\s:=]+)[^\s"']{4,}`,
		`(?i)(token["'\s:=]+)[a-zA-Z0-9._-]{16,}`,
		`(?i)(api[_-]?key["'\s:=]+)[a-zA-Z0-9_-]{16,}`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Sanitize redacts credentials from a string.
func (s *Sanitizer) Sanitize(input string) string {
	result := input
	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllString(result, "${1}"+s.redacted+"${2}")
	}
	return result
}

// SanitizeArgs redacts the values following secret flags in an argument
// vector, returning a copy safe for logs and reports.
func (s *Sanitizer) SanitizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		if slices.Contains(secretFlags, out[i]) && i+1 < len(out) {
			out[i+1] = s.redacted
			i++
		}
	}
	return out
}

// AddPattern adds a custom pattern.
func (s *Sanitizer) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	s.patterns = append(s.patterns, re)
	return nil
}
