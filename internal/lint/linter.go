package lint

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"

	"jsstyle/internal/errors"
	"jsstyle/internal/jsast"
	"jsstyle/internal/slogutil"
)

// MaxFixPasses bounds how often Fix re-lints after applying fixes. Nested
// literals are fixed one level per pass.
const MaxFixPasses = 10

// Parser turns source into the jsast model.
type Parser interface {
	Parse(ctx context.Context, path string, src []byte) (*jsast.File, error)
}

// Setting is the configured state of one rule.
type Setting struct {
	// Severity is off, warn or error; empty means the rule's default.
	Severity string
	Options  map[string]any
}

// ActiveRule is a rule bound to its severity and options.
type ActiveRule struct {
	Rule     Rule
	Severity Severity
	Factory  Factory
}

// Configure resolves settings against reg. Rules that are off are dropped.
// Unknown rule names and invalid options fail here, before any file is read.
func Configure(reg *Registry, settings map[string]Setting) ([]ActiveRule, error) {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	var active []ActiveRule
	for _, name := range names {
		s := settings[name]
		rule, ok := reg.Lookup(name)
		if !ok {
			return nil, errors.New(errors.RuleUnknown, fmt.Sprintf("unknown rule '%s'", name), nil)
		}

		severity := rule.DefaultSeverity()
		if s.Severity != "" {
			var err error
			if severity, err = ParseSeverity(s.Severity); err != nil {
				return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("rules.%s.severity", name), err)
			}
		}
		if severity == SeverityOff {
			continue
		}

		factory, err := rule.Configure(s.Options)
		if err != nil {
			return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("rules.%s", name), err)
		}
		active = append(active, ActiveRule{Rule: rule, Severity: severity, Factory: factory})
	}
	return active, nil
}

// Result is the outcome of linting one file.
type Result struct {
	Path   string
	Issues []Issue
	// Source is the final content; it differs from the input only after Fix.
	Source []byte
	// Fixed counts the fixes applied over all passes.
	Fixed  int
	Passes int
	// HasSyntaxErrors is set when the parser had to recover.
	HasSyntaxErrors bool
}

// Changed reports whether Fix modified the input.
func (r *Result) Changed(original []byte) bool {
	return !bytes.Equal(r.Source, original)
}

// Linter runs a fixed set of rules over files. A Linter is not safe for
// concurrent use because its parser is not; the Runner gives each worker one.
type Linter struct {
	parser Parser
	rules  []ActiveRule
	logger *slog.Logger
}

// NewLinter creates a linter.
func NewLinter(parser Parser, rules []ActiveRule, logger *slog.Logger) *Linter {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Linter{
		parser: parser,
		rules:  rules,
		logger: logger,
	}
}

// Lint reports the issues in src.
func (l *Linter) Lint(ctx context.Context, path string, src []byte) (*Result, error) {
	file, err := l.parser.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	if file.HasErrors {
		l.logger.Debug("Syntax errors recovered", "path", path)
	}

	issues, err := l.run(file)
	if err != nil {
		return nil, err
	}
	return &Result{
		Path:            path,
		Issues:          issues,
		Source:          src,
		Passes:          1,
		HasSyntaxErrors: file.HasErrors,
	}, nil
}

// Fix applies fixes and re-lints until nothing changes or MaxFixPasses is
// reached. The returned issues are those remaining in the final source.
func (l *Linter) Fix(ctx context.Context, path string, src []byte) (*Result, error) {
	fixed := 0
	for pass := 1; ; pass++ {
		res, err := l.Lint(ctx, path, src)
		if err != nil {
			return nil, err
		}
		res.Fixed = fixed
		res.Passes = pass
		if pass > MaxFixPasses || res.HasSyntaxErrors {
			return res, nil
		}

		out, applied := ApplyFixes(src, res.Issues)
		if applied == 0 || bytes.Equal(out, src) {
			return res, nil
		}
		l.logger.Debug("Applied fixes", "path", path, "pass", pass, "count", applied)
		src = out
		fixed += applied
	}
}

func (l *Linter) run(file *jsast.File) (issues []Issue, err error) {
	contexts := make([]*Context, len(l.rules))

	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			issues = nil
			err = errors.New(errors.InternalError, fmt.Sprintf("rule failed on %s", file.Path), cause)
		}
	}()

	sets := make([]jsast.Handlers, len(l.rules))
	for i, active := range l.rules {
		contexts[i] = newContext(file, active, l.logger)
		sets[i] = active.Factory(contexts[i])
	}
	jsast.Walk(file, sets...)

	for _, c := range contexts {
		issues = append(issues, c.Issues()...)
	}
	SortIssues(issues)
	return issues, nil
}

// SortIssues orders issues by offset, then by rule name.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i].Location, issues[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return issues[i].Rule < issues[j].Rule
	})
}

// ApplyFixes applies the fixes carried by issues to src in one pass.
// Identical fixes are applied once; a fix overlapping one already taken is
// skipped and left for the next pass. It returns the new source and the
// number of fixes applied.
func ApplyFixes(src []byte, issues []Issue) ([]byte, int) {
	var fixes []*Fix
	for _, is := range issues {
		if is.Fix != nil {
			fixes = append(fixes, is.Fix)
		}
	}
	if len(fixes) == 0 {
		return src, 0
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		if fixes[i].Span.Start != fixes[j].Span.Start {
			return fixes[i].Span.Start < fixes[j].Span.Start
		}
		return fixes[i].Span.End < fixes[j].Span.End
	})

	var (
		out     bytes.Buffer
		last    = 0
		applied = 0
		prev    *Fix
	)
	for _, f := range fixes {
		if prev != nil && *f == *prev {
			continue
		}
		if f.Span.Start < last || f.Span.End > len(src) || f.Span.Start > f.Span.End {
			continue
		}
		out.Write(src[last:f.Span.Start])
		out.WriteString(f.Text)
		last = f.Span.End
		prev = f
		applied++
	}
	out.Write(src[last:])
	return out.Bytes(), applied
}
