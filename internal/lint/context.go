package lint

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"jsstyle/internal/jsast"
)

// Descriptor is what a rule passes to Context.Report.
type Descriptor struct {
	// Span is the reported node; its start is the issue offset.
	Span jsast.Span
	// Pos overrides the location derived from Span.Start when set.
	Pos jsast.Position
	// Message may contain {{slot}} placeholders filled from Data.
	Message string
	Data    map[string]any
	Fix     *Fix
}

// Context is handed to a rule Factory for one file.
type Context struct {
	file     *jsast.File
	rule     string
	severity Severity
	logger   *slog.Logger
	issues   []Issue
}

func newContext(file *jsast.File, active ActiveRule, logger *slog.Logger) *Context {
	return &Context{
		file:     file,
		rule:     active.Rule.Name(),
		severity: active.Severity,
		logger:   logger.With("rule", active.Rule.Name()),
	}
}

// File returns the file being linted.
func (c *Context) File() *jsast.File {
	return c.file
}

// Source returns the file's source bytes.
func (c *Context) Source() []byte {
	return c.file.Source
}

// RuleName returns the name of the rule this context belongs to.
func (c *Context) RuleName() string {
	return c.rule
}

// Logger returns a logger tagged with the rule name.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Report records an issue.
func (c *Context) Report(d Descriptor) {
	pos := d.Pos
	if pos.Line == 0 {
		pos = c.file.PositionAt(d.Span.Start)
	}
	c.issues = append(c.issues, Issue{
		Rule:     c.rule,
		Severity: c.severity,
		Message:  RenderMessage(d.Message, d.Data),
		Location: Location{
			File:   c.file.Path,
			Line:   pos.Line,
			Column: pos.Column,
			Offset: d.Span.Start,
		},
		Fix:  d.Fix,
		Data: d.Data,
	})
}

// Issues returns what has been reported so far.
func (c *Context) Issues() []Issue {
	return c.issues
}

var placeholder = regexp.MustCompile(`\{\{([^{}]+?)\}\}`)

// RenderMessage substitutes {{name}} placeholders with values from data.
// Placeholders without a matching key are left as written.
func RenderMessage(template string, data map[string]any) string {
	if len(data) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		if v, ok := data[key]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}
