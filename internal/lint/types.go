// Package lint is the rule host: it parses a file, dispatches traversal
// events to the configured rules, collects the issues they report and
// applies their fixes.
package lint

import (
	"fmt"
	"strings"

	"jsstyle/internal/jsast"
)

// Severity represents the severity level of a linting issue.
type Severity int

const (
	// SeverityOff disables a rule.
	SeverityOff Severity = iota
	// SeverityWarn reports an issue without failing the run.
	SeverityWarn
	// SeverityError reports an issue that fails the run.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity accepts off/warn/error, the alias warning and the numeric
// forms 0/1/2.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarn, nil
	case "error", "2":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("invalid severity %q (want off, warn or error)", s)
	}
}

// Location is where an issue was reported.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

// Fix replaces the bytes covered by Span with Text.
type Fix struct {
	Span jsast.Span `json:"span"`
	Text string     `json:"text"`
}

// Issue represents a single linting issue.
type Issue struct {
	Rule     string         `json:"rule"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Location Location       `json:"location"`
	Fix      *Fix           `json:"fix,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// String returns a formatted string representation of the issue.
func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d [%s] %s",
		i.Location.File,
		i.Location.Line,
		i.Location.Column,
		i.Rule,
		i.Message)
}

// Fixable reports whether the issue carries a fix.
func (i Issue) Fixable() bool {
	return i.Fix != nil
}
