package main

import (
	"encoding/json"
	"strings"
	"testing"

	"jsstyle/internal/lint"
	"jsstyle/internal/sortkeys"
)

func TestFormatReportAsSARIF(t *testing.T) {
	root := t.TempDir()
	report := buildReport(sampleResults(root), root, false)
	rules := []lint.ActiveRule{{Rule: sortkeys.Rule{}, Severity: lint.SeverityError}}

	output, err := FormatReportAsSARIF(report, rules)
	if err != nil {
		t.Fatalf("FormatReportAsSARIF failed: %v", err)
	}

	// Parse and validate SARIF structure
	var sarif SARIFReport
	if err := json.Unmarshal([]byte(output), &sarif); err != nil {
		t.Fatalf("Failed to parse SARIF output: %v", err)
	}

	if sarif.Version != "2.1.0" {
		t.Errorf("SARIF version = %q, want 2.1.0", sarif.Version)
	}
	if !strings.Contains(sarif.Schema, "sarif-schema-2.1.0") {
		t.Errorf("SARIF schema should reference 2.1.0, got %q", sarif.Schema)
	}
	if len(sarif.Runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(sarif.Runs))
	}
	run := sarif.Runs[0]

	// Verify tool info
	if run.Tool.Driver.Name != "jsstyle" {
		t.Errorf("Tool name = %q, want jsstyle", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "sort-keys" {
		t.Errorf("Rules = %+v", run.Tool.Driver.Rules)
	}
	if run.AutomationDetails == nil || run.AutomationDetails.GUID != report.RunID {
		t.Errorf("AutomationDetails = %+v, want guid %s", run.AutomationDetails, report.RunID)
	}

	// Verify results
	if len(run.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.Level != "error" || first.RuleIndex != 0 {
		t.Errorf("Level/RuleIndex = %q/%d", first.Level, first.RuleIndex)
	}
	loc := first.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/a.js" || loc.Region.StartLine != 1 || loc.Region.StartColumn != 12 {
		t.Errorf("location = %+v %+v", loc.ArtifactLocation, loc.Region)
	}
	if len(first.Fixes) != 1 {
		t.Fatalf("Expected a fix on the first result, got %d", len(first.Fixes))
	}
	repl := first.Fixes[0].ArtifactChanges[0].Replacements[0]
	if repl.DeletedRegion.ByteOffset != 5 || repl.DeletedRegion.ByteLength != 10 {
		t.Errorf("DeletedRegion = %+v", repl.DeletedRegion)
	}
	if run.Results[1].Level != "warning" || len(run.Results[1].Fixes) != 0 {
		t.Errorf("second result = %+v", run.Results[1])
	}

	// The failed file makes the invocation unsuccessful
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("ExecutionSuccessful should be false when a file failed")
	}
}

func TestGenerateFingerprint(t *testing.T) {
	a := sortIssue("a.js", 1, 1, lint.SeverityError, nil)
	moved := sortIssue("a.js", 40, 3, lint.SeverityError, nil)

	fp := generateFingerprint("a.js", a)
	if len(fp) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(fp))
	}
	if fp != generateFingerprint("a.js", moved) {
		t.Error("fingerprint should not depend on the line")
	}
	if fp == generateFingerprint("b.js", a) {
		t.Error("fingerprint should depend on the file")
	}
}
