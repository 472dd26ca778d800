package lint

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsstyle/internal/errors"
	"jsstyle/internal/jsast"
)

// wholeFileParser models every source as one empty object literal.
type wholeFileParser struct{}

func (wholeFileParser) Parse(_ context.Context, path string, src []byte) (*jsast.File, error) {
	if bytes.Contains(src, []byte("#syntax")) {
		return &jsast.File{Path: path, Source: src, HasErrors: true}, nil
	}
	obj := &jsast.ObjectLiteral{Span: jsast.Span{Start: 0, End: len(src)}}
	return &jsast.File{Path: path, Source: src, Objects: []*jsast.ObjectLiteral{obj}}, nil
}

// replaceRule reports the first occurrence of old and offers to replace it.
type replaceRule struct {
	name     string
	old, new string
	options  map[string]any
}

func (r *replaceRule) Name() string              { return r.name }
func (r *replaceRule) Description() string       { return "replaces " + r.old }
func (r *replaceRule) Fixable() bool             { return true }
func (r *replaceRule) DefaultSeverity() Severity { return SeverityWarn }

func (r *replaceRule) Configure(options map[string]any) (Factory, error) {
	if _, bad := options["bad"]; bad {
		return nil, fmt.Errorf("bad option")
	}
	r.options = options
	return func(ctx *Context) jsast.Handlers {
		return jsast.Handlers{
			jsast.NodeObject: func(jsast.Node) {
				i := bytes.Index(ctx.Source(), []byte(r.old))
				if i < 0 {
					return
				}
				span := jsast.Span{Start: i, End: i + len(r.old)}
				ctx.Report(Descriptor{
					Span:    span,
					Message: "Unexpected '{{old}}', use '{{ new }}'. {{missing}}",
					Data:    map[string]any{"old": r.old, "new": r.new},
					Fix:     &Fix{Span: span, Text: r.new},
				})
			},
		}
	}, nil
}

type panicRule struct{ replaceRule }

func (r *panicRule) Configure(map[string]any) (Factory, error) {
	return func(*Context) jsast.Handlers {
		return jsast.Handlers{
			jsast.NodeObjectExit: func(jsast.Node) { panic("stack underflow") },
		}
	}, nil
}

func active(t *testing.T, rules ...Rule) []ActiveRule {
	t.Helper()
	var out []ActiveRule
	for _, r := range rules {
		f, err := r.Configure(nil)
		require.NoError(t, err)
		out = append(out, ActiveRule{Rule: r, Severity: SeverityError, Factory: f})
	}
	return out
}

func TestRenderMessage(t *testing.T) {
	tests := []struct {
		template string
		data     map[string]any
		want     string
	}{
		{"'{{a}}' before '{{b}}'", map[string]any{"a": "x", "b": 2}, "'x' before '2'"},
		{"{{ spaced }}", map[string]any{"spaced": "ok"}, "ok"},
		{"{{missing}} stays", map[string]any{"a": 1}, "{{missing}} stays"},
		{"no data {{a}}", nil, "no data {{a}}"},
		{"{{empty}}order", map[string]any{"empty": ""}, "order"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderMessage(tt.template, tt.data), tt.template)
	}
}

func TestSeverity(t *testing.T) {
	for in, want := range map[string]Severity{
		"off": SeverityOff, "0": SeverityOff,
		"warn": SeverityWarn, "Warning": SeverityWarn, "1": SeverityWarn,
		"error": SeverityError, " 2 ": SeverityError,
	} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSeverity("fatal")
	assert.Error(t, err)

	text, err := SeverityWarn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("error")))
	assert.Equal(t, SeverityError, s)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&replaceRule{name: "zeta"}))
	require.NoError(t, reg.Register(&replaceRule{name: "alpha"}))

	err := reg.Register(&replaceRule{name: "alpha"})
	assert.Error(t, err, "duplicate names must be rejected")
	assert.Error(t, reg.Register(&replaceRule{}), "empty names must be rejected")
	assert.Panics(t, func() { reg.MustRegister(&replaceRule{name: "zeta"}) })

	r, ok := reg.Lookup("alpha")
	assert.True(t, ok)
	assert.Equal(t, "alpha", r.Name())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name())
	assert.Equal(t, "zeta", all[1].Name())
}

func TestConfigure(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&replaceRule{name: "one"})
	reg.MustRegister(&replaceRule{name: "two"})

	t.Run("default severity and off", func(t *testing.T) {
		rules, err := Configure(reg, map[string]Setting{
			"one": {},
			"two": {Severity: "off"},
		})
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "one", rules[0].Rule.Name())
		assert.Equal(t, SeverityWarn, rules[0].Severity)
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := Configure(reg, map[string]Setting{"three": {}})
		assert.True(t, errors.Is(err, errors.RuleUnknown), "got %v", err)
	})

	t.Run("bad severity", func(t *testing.T) {
		_, err := Configure(reg, map[string]Setting{"one": {Severity: "loud"}})
		assert.True(t, errors.Is(err, errors.ConfigInvalid), "got %v", err)
	})

	t.Run("bad options", func(t *testing.T) {
		_, err := Configure(reg, map[string]Setting{"one": {Options: map[string]any{"bad": true}}})
		assert.True(t, errors.Is(err, errors.ConfigInvalid), "got %v", err)
	})
}

func TestLinter_Lint(t *testing.T) {
	rules := active(t, &replaceRule{name: "b-rule", old: "bb", new: "b"}, &replaceRule{name: "a-rule", old: "aa", new: "a"})
	l := NewLinter(wholeFileParser{}, rules, nil)

	res, err := l.Lint(context.Background(), "x.js", []byte("xx\nbb aa"))
	require.NoError(t, err)
	require.Len(t, res.Issues, 2)

	first := res.Issues[0]
	assert.Equal(t, "b-rule", first.Rule, "issues are sorted by offset")
	assert.Equal(t, Location{File: "x.js", Line: 2, Column: 1, Offset: 3}, first.Location)
	assert.Equal(t, "Unexpected 'bb', use 'b'. {{missing}}", first.Message)
	assert.Equal(t, SeverityError, first.Severity)
	assert.True(t, first.Fixable())
	assert.Equal(t, "x.js:2:1 [b-rule] Unexpected 'bb', use 'b'. {{missing}}", first.String())
	assert.Equal(t, "a-rule", res.Issues[1].Rule)
}

func TestLinter_RecoversRulePanics(t *testing.T) {
	l := NewLinter(wholeFileParser{}, active(t, &panicRule{}), nil)

	_, err := l.Lint(context.Background(), "x.js", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.InternalError), "got %v", err)
	assert.Contains(t, err.Error(), "stack underflow")
}

func TestLinter_Fix(t *testing.T) {
	t.Run("converges", func(t *testing.T) {
		l := NewLinter(wholeFileParser{}, active(t, &replaceRule{name: "r", old: "old", new: "new"}), nil)
		src := []byte("old old old")

		res, err := l.Fix(context.Background(), "x.js", src)
		require.NoError(t, err)
		assert.Equal(t, "new new new", string(res.Source))
		assert.Empty(t, res.Issues)
		assert.Equal(t, 3, res.Fixed)
		assert.Equal(t, 4, res.Passes)
		assert.True(t, res.Changed(src))
	})

	t.Run("bounded passes", func(t *testing.T) {
		l := NewLinter(wholeFileParser{}, active(t, &replaceRule{name: "r", old: "a", new: "aa"}), nil)

		res, err := l.Fix(context.Background(), "x.js", []byte("a"))
		require.NoError(t, err)
		assert.Equal(t, MaxFixPasses, res.Fixed)
		assert.Equal(t, MaxFixPasses+1, res.Passes)
		assert.Len(t, res.Issues, 1, "issues of the last pass are reported")
	})

	t.Run("syntax errors are not fixed", func(t *testing.T) {
		l := NewLinter(wholeFileParser{}, active(t, &replaceRule{name: "r", old: "old", new: "new"}), nil)
		src := []byte("#syntax old")

		res, err := l.Fix(context.Background(), "x.js", src)
		require.NoError(t, err)
		assert.False(t, res.Changed(src))
		assert.True(t, res.HasSyntaxErrors)
	})
}

func TestApplyFixes(t *testing.T) {
	src := []byte("0123456789")
	issue := func(start, end int, text string) Issue {
		return Issue{Fix: &Fix{Span: jsast.Span{Start: start, End: end}, Text: text}}
	}

	tests := []struct {
		name    string
		issues  []Issue
		want    string
		applied int
	}{
		{"none", []Issue{{Message: "no fix"}}, "0123456789", 0},
		{"single", []Issue{issue(2, 4, "x")}, "01x456789", 1},
		{"unordered", []Issue{issue(8, 9, "b"), issue(0, 1, "a")}, "a1234567b9", 2},
		{"adjacent", []Issue{issue(0, 2, "a"), issue(2, 4, "b")}, "ab456789", 2},
		{"duplicate", []Issue{issue(1, 3, "z"), issue(1, 3, "z")}, "0z3456789", 1},
		{"overlap keeps outer", []Issue{issue(3, 5, "in"), issue(1, 8, "out")}, "0out89", 1},
		{"out of range", []Issue{issue(5, 20, "x")}, "0123456789", 0},
		{"insert", []Issue{issue(5, 5, "-")}, "01234-56789", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, applied := ApplyFixes(src, tt.issues)
			assert.Equal(t, tt.want, string(out))
			assert.Equal(t, tt.applied, applied)
		})
	}
}

type memoryCache struct {
	mu     sync.Mutex
	issues map[string][]Issue
	hits   int
}

func (c *memoryCache) key(path string, src []byte) string { return path + "\x00" + string(src) }

func (c *memoryCache) Lookup(path string, src []byte) ([]Issue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	is, ok := c.issues[c.key(path, src)]
	if ok {
		c.hits++
	}
	return is, ok
}

func (c *memoryCache) Store(path string, src []byte, issues []Issue) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues[c.key(path, src)] = issues
	return nil
}

func TestRunner(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 12; i++ {
		p := filepath.Join(dir, fmt.Sprintf("f%02d.js", i))
		content := "clean"
		if i%3 == 0 {
			content = "old"
		}
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		paths = append(paths, p)
	}
	paths = append(paths, filepath.Join(dir, "missing.js"))

	newParser := func() Parser { return wholeFileParser{} }
	rules := active(t, &replaceRule{name: "r", old: "old", new: "new"})
	cache := &memoryCache{issues: map[string][]Issue{}}

	r := NewRunner(newParser, rules, nil, RunnerConfig{WorkerCount: 4, Cache: cache})
	results := r.Run(context.Background(), paths)
	require.Len(t, results, len(paths))

	for i, fr := range results[:12] {
		assert.Equal(t, paths[i], fr.Path, "results keep input order")
		require.NoError(t, fr.Err)
		assert.False(t, fr.Cached)
		wantIssues := 0
		if i%3 == 0 {
			wantIssues = 1
		}
		assert.Len(t, fr.Result.Issues, wantIssues, fr.Path)
	}
	assert.Error(t, results[12].Err, "unreadable files report an error")

	again := r.Run(context.Background(), paths[:12])
	for _, fr := range again {
		assert.True(t, fr.Cached, fr.Path)
	}
	assert.Equal(t, 12, cache.hits)

	fixer := NewRunner(newParser, rules, nil, RunnerConfig{WorkerCount: 2, Fix: true})
	fixed := fixer.Run(context.Background(), paths[:1])
	require.NoError(t, fixed[0].Err)
	assert.Equal(t, "new", string(fixed[0].Result.Source))
	assert.Equal(t, "old", string(fixed[0].Original))
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(func() Parser { return wholeFileParser{} }, nil, nil, RunnerConfig{WorkerCount: 1})
	results := r.Run(ctx, []string{"a.js", "b.js", "c.js"})
	require.Len(t, results, 3)
	canceled := 0
	for _, fr := range results {
		if fr.Err == context.Canceled {
			canceled++
		}
	}
	assert.Equal(t, 3, canceled)
}
