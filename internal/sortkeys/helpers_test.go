package sortkeys

import (
	"context"
	"strings"
	"testing"

	"jsstyle/internal/jsast"
	"jsstyle/internal/lint"
)

// flatParser builds the model of a single flat object literal such as
// `x = {a: 1, /* c */ ...s, [k.v]: 2}` without tree-sitter. Values must not
// contain commas or braces.
type flatParser struct{}

func (flatParser) Parse(_ context.Context, path string, src []byte) (*jsast.File, error) {
	s := string(src)
	open, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')

	obj := &jsast.ObjectLiteral{Span: jsast.Span{Start: open, End: end + 1}}
	f := &jsast.File{
		Path:     path,
		Language: jsast.LangJavaScript,
		Source:   src,
		Objects:  []*jsast.ObjectLiteral{obj},
	}
	obj.Pos = f.PositionAt(open)

	var pending []jsast.Comment
	pos := open + 1
	for {
		for pos < end && strings.ContainsRune(" \t\n,", rune(s[pos])) {
			pos++
		}
		if pos >= end {
			break
		}

		if strings.HasPrefix(s[pos:], "/*") {
			stop := pos + strings.Index(s[pos:], "*/") + 2
			c := jsast.Comment{Span: jsast.Span{Start: pos, End: stop}, Text: s[pos:stop], Block: true}
			if n := len(obj.Entries); n > 0 {
				obj.Entries[n-1].TrailingComments = append(obj.Entries[n-1].TrailingComments, c)
			}
			pending = append(pending, c)
			pos = stop
			continue
		}

		stop := end
		for _, sep := range []string{",", "/*"} {
			if i := strings.Index(s[pos:end], sep); i >= 0 && pos+i < stop {
				stop = pos + i
			}
		}
		text := strings.TrimRight(s[pos:stop], " \t\n")

		e := flatEntry(f, text, pos)
		e.Object = obj
		e.Index = len(obj.Entries)
		e.LeadingComments = pending
		pending = nil
		obj.Entries = append(obj.Entries, e)
		pos = stop
	}
	return f, nil
}

func flatEntry(f *jsast.File, text string, start int) *jsast.Entry {
	e := &jsast.Entry{
		Span:   jsast.Span{Start: start, End: start + len(text)},
		Pos:    f.PositionAt(start),
		Column: f.PositionAt(start).Column - 1,
	}
	if strings.HasPrefix(text, "...") {
		e.Kind = jsast.EntrySpread
		e.Argument = text[3:]
		return e
	}

	keyText, _, hasValue := strings.Cut(text, ": ")
	e.Kind = jsast.EntryShorthand
	if hasValue {
		e.Kind = jsast.EntryProperty
	}

	k := jsast.Key{
		Text: keyText,
		Span: jsast.Span{Start: start, End: start + len(keyText)},
		Pos:  e.Pos,
	}
	inner := keyText
	if strings.HasPrefix(keyText, "[") {
		k.Computed = true
		inner = keyText[1 : len(keyText)-1]
		k.Text = inner
	}
	switch {
	case inner[0] == '\'' || inner[0] == '"':
		k.Kind = jsast.KeyString
		k.Value = jsast.UnquoteString(inner)
	case inner[0] >= '0' && inner[0] <= '9':
		k.Kind = jsast.KeyNumber
		k.Number, _ = jsast.ParseNumber(inner)
	case inner[0] == '`':
		k.Kind = jsast.KeyTemplate
	case strings.ContainsAny(inner, ".()[]"):
		k.Kind = jsast.KeyExpression
	default:
		k.Kind = jsast.KeyIdentifier
	}
	e.Key = k
	return e
}

// newTestLinter configures sort-keys with options and binds it to parser.
func newTestLinter(t *testing.T, parser lint.Parser, options map[string]any) *lint.Linter {
	t.Helper()
	factory, err := Rule{}.Configure(options)
	if err != nil {
		t.Fatalf("Configure(%v): %v", options, err)
	}
	active := []lint.ActiveRule{{Rule: Rule{}, Severity: lint.SeverityError, Factory: factory}}
	return lint.NewLinter(parser, active, nil)
}

func lintFlat(t *testing.T, src string, options map[string]any) []lint.Issue {
	t.Helper()
	res, err := newTestLinter(t, flatParser{}, options).Lint(context.Background(), "test.js", []byte(src))
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	return res.Issues
}

func messages(issues []lint.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}

func applyOne(t *testing.T, src string, issues []lint.Issue) string {
	t.Helper()
	out, applied := lint.ApplyFixes([]byte(src), issues)
	if applied == 0 {
		t.Fatalf("no fix applied to %q", src)
	}
	return string(out)
}
