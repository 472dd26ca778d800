package lint

import "jsstyle/internal/jsast"

// Rule defines the interface that all linting rules must implement.
type Rule interface {
	// Name returns a unique kebab-case identifier such as "sort-keys".
	Name() string

	// Description returns a human-readable description of what the rule checks.
	Description() string

	// Fixable reports whether the rule can attach fixes to its issues.
	Fixable() bool

	// DefaultSeverity is used when the configuration does not set one.
	DefaultSeverity() Severity

	// Configure validates the rule's options and binds them. It runs once at
	// configuration load time so that bad options fail before any file is
	// parsed.
	Configure(options map[string]any) (Factory, error)
}

// Factory creates the traversal handlers for one file. It is called once per
// file, so any per-traversal state must be created inside it and never
// shared between calls.
type Factory func(ctx *Context) jsast.Handlers
