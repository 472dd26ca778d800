package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/google/uuid"

	"jsstyle/internal/lint"
	"jsstyle/internal/paths"
	"jsstyle/internal/version"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatSARIF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want text, json or sarif)", s)
	}
}

// Report is the outcome of one lint run.
type Report struct {
	RunID   string       `json:"runId"`
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// FileReport is one file's entry in a Report.
type FileReport struct {
	Path         string       `json:"path"`
	Issues       []lint.Issue `json:"issues"`
	Fixed        int          `json:"fixed,omitempty"`
	Cached       bool         `json:"cached,omitempty"`
	SyntaxErrors bool         `json:"syntaxErrors,omitempty"`
	Diff         string       `json:"diff,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Summary totals a Report.
type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Fixable  int `json:"fixable"`
	Fixed    int `json:"fixed"`
	Cached   int `json:"cached"`
	Failed   int `json:"failed"`
}

// Problems is the number of reported issues.
func (s Summary) Problems() int {
	return s.Errors + s.Warnings
}

// buildReport converts runner results. Paths are shown relative to root;
// diffs are attached when withDiff is set and a file changed.
func buildReport(results []lint.FileResult, root string, withDiff bool) *Report {
	r := &Report{
		RunID:   uuid.NewString(),
		Tool:    "jsstyle",
		Version: version.Version,
		Files:   make([]FileReport, 0, len(results)),
	}

	for _, fr := range results {
		display := paths.DisplayPath(fr.Path, root)
		rep := FileReport{Path: display, Issues: []lint.Issue{}, Cached: fr.Cached}
		r.Summary.Files++

		if fr.Err != nil {
			rep.Error = fr.Err.Error()
			r.Summary.Failed++
			r.Files = append(r.Files, rep)
			continue
		}

		res := fr.Result
		rep.Fixed = res.Fixed
		rep.SyntaxErrors = res.HasSyntaxErrors
		for _, is := range res.Issues {
			is.Location.File = display
			rep.Issues = append(rep.Issues, is)

			switch is.Severity {
			case lint.SeverityError:
				r.Summary.Errors++
			case lint.SeverityWarn:
				r.Summary.Warnings++
			}
			if is.Fixable() {
				r.Summary.Fixable++
			}
		}
		r.Summary.Fixed += res.Fixed
		if fr.Cached {
			r.Summary.Cached++
		}
		if withDiff && res.Changed(fr.Original) {
			rep.Diff = unifiedDiff(display, fr.Original, res.Source)
		}
		r.Files = append(r.Files, rep)
	}
	return r
}

// unifiedDiff renders the change from before to after as a unified diff.
func unifiedDiff(path string, before, after []byte) string {
	return udiff.Unified("a/"+path, "b/"+path, string(before), string(after))
}

// writeReport writes r in format; rules describe the active rules for SARIF.
func writeReport(w io.Writer, r *Report, format OutputFormat, rules []lint.ActiveRule) error {
	switch format {
	case FormatJSON:
		return formatJSON(w, r)
	case FormatSARIF:
		out, err := FormatReportAsSARIF(r, rules)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		return formatText(w, r)
	}
}

// formatJSON writes the report as indented JSON
func formatJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// formatText writes issues grouped by file, then a summary line. Clean files
// are omitted.
func formatText(w io.Writer, r *Report) error {
	var b strings.Builder

	for _, f := range r.Files {
		if f.Diff != "" {
			b.WriteString(f.Diff)
			if !strings.HasSuffix(f.Diff, "\n") {
				b.WriteByte('\n')
			}
		}
		if len(f.Issues) == 0 && f.Error == "" && !f.SyntaxErrors {
			continue
		}

		b.WriteString(f.Path + "\n")
		if f.Error != "" {
			b.WriteString(fmt.Sprintf("  error  %s\n", f.Error))
		}
		if f.SyntaxErrors {
			b.WriteString("  note   file has syntax errors; fixes were not applied\n")
		}
		for _, is := range f.Issues {
			b.WriteString(fmt.Sprintf("  %d:%d  %-5s  %s  %s\n",
				is.Location.Line,
				is.Location.Column,
				is.Severity,
				is.Message,
				is.Rule))
		}
		b.WriteByte('\n')
	}

	s := r.Summary
	switch {
	case s.Problems() > 0:
		b.WriteString(fmt.Sprintf("%s (%s, %s)\n",
			plural(s.Problems(), "problem"),
			plural(s.Errors, "error"),
			plural(s.Warnings, "warning")))
		if s.Fixable > 0 {
			b.WriteString(fmt.Sprintf("  %s potentially fixable with the `--fix` option.\n", plural(s.Fixable, "problem")))
		}
	case s.Failed == 0:
		b.WriteString(fmt.Sprintf("No problems found in %s.\n", plural(s.Files, "file")))
	}
	if s.Fixed > 0 {
		b.WriteString(fmt.Sprintf("Fixed %s.\n", plural(s.Fixed, "problem")))
	}
	if s.Failed > 0 {
		b.WriteString(fmt.Sprintf("%s could not be linted.\n", plural(s.Failed, "file")))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
