package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"runtime"

	"golang.org/x/crypto/blake2b"

	"jsstyle/internal/lint"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool               `json:"tool"`
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	ID   string `json:"id,omitempty"`
	GUID string `json:"guid,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           map[string]interface{}  `json:"properties,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string            `json:"ruleId"`
	RuleIndex    int               `json:"ruleIndex"`
	Level        string            `json:"level,omitempty"`
	Message      SARIFMessage      `json:"message"`
	Locations    []SARIFLocation   `json:"locations,omitempty"`
	Fingerprints map[string]string `json:"fingerprints,omitempty"`
	Fixes        []SARIFFix        `json:"fixes,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion identifies a region within a file. Columns are 1-based.
type SARIFRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	ByteOffset  int `json:"byteOffset,omitempty"`
	ByteLength  int `json:"byteLength,omitempty"`
}

// SARIFFix is a proposed edit.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange lists the replacements in one file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement replaces DeletedRegion with InsertedContent.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion  `json:"deletedRegion"`
	InsertedContent SARIFMessage `json:"insertedContent"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	Machine             string `json:"machine,omitempty"`
}

// FormatReportAsSARIF converts a lint report to SARIF format.
func FormatReportAsSARIF(report *Report, rules []lint.ActiveRule) (string, error) {
	// Rules in configuration order; ruleIndex points into this slice
	sarifRules := make([]SARIFRule, 0, len(rules))
	ruleIndex := make(map[string]int, len(rules))
	for _, ar := range rules {
		ruleIndex[ar.Rule.Name()] = len(sarifRules)
		sarifRules = append(sarifRules, SARIFRule{
			ID:   ar.Rule.Name(),
			Name: ar.Rule.Name(),
			ShortDescription: &SARIFMessage{
				Text: ar.Rule.Description(),
			},
			DefaultConfiguration: &SARIFRuleConfiguration{
				Level: severityToSARIFLevel(ar.Severity),
			},
			Properties: map[string]interface{}{
				"fixable": ar.Rule.Fixable(),
				"tags":    []string{"style"},
			},
		})
	}

	results := make([]SARIFResult, 0)
	for _, f := range report.Files {
		for _, is := range f.Issues {
			idx, ok := ruleIndex[is.Rule]
			if !ok {
				idx = -1
			}
			artifact := SARIFArtifactLocation{URI: f.Path, URIBaseID: "%SRCROOT%"}

			res := SARIFResult{
				RuleID:    is.Rule,
				RuleIndex: idx,
				Level:     severityToSARIFLevel(is.Severity),
				Message:   SARIFMessage{Text: is.Message},
				Locations: []SARIFLocation{
					{
						PhysicalLocation: &SARIFPhysicalLocation{
							ArtifactLocation: &artifact,
							Region: &SARIFRegion{
								StartLine:   is.Location.Line,
								StartColumn: is.Location.Column,
							},
						},
					},
				},
				Fingerprints: map[string]string{
					"jsstyle/v1": generateFingerprint(f.Path, is),
				},
			}

			if is.Fix != nil {
				res.Fixes = []SARIFFix{{
					Description: SARIFMessage{Text: fmt.Sprintf("Apply the %s fix", is.Rule)},
					ArtifactChanges: []SARIFArtifactChange{{
						ArtifactLocation: artifact,
						Replacements: []SARIFReplacement{{
							DeletedRegion: SARIFRegion{
								ByteOffset: is.Fix.Span.Start,
								ByteLength: is.Fix.Span.End - is.Fix.Span.Start,
							},
							InsertedContent: SARIFMessage{Text: is.Fix.Text},
						}},
					}},
				}}
			}
			results = append(results, res)
		}
	}

	// Build the complete report
	sarif := SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            report.Tool,
						Version:         report.Version,
						SemanticVersion: report.Version,
						Rules:           sarifRules,
					},
				},
				AutomationDetails: &SARIFAutomationDetails{
					ID:   "jsstyle/lint/" + report.RunID,
					GUID: report.RunID,
				},
				Results: results,
				Invocations: []SARIFInvocation{
					{
						ExecutionSuccessful: report.Summary.Failed == 0,
						Machine:             runtime.GOOS + "/" + runtime.GOARCH,
					},
				},
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	return string(data), nil
}

// severityToSARIFLevel converts a lint severity to a SARIF level.
func severityToSARIFLevel(s lint.Severity) string {
	switch s {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarn:
		return "warning"
	default:
		return "none"
	}
}

// generateFingerprint creates a stable fingerprint for deduplication. Lines
// are left out so that unrelated edits above an issue keep its identity.
func generateFingerprint(path string, is lint.Issue) string {
	data := fmt.Sprintf("%s:%s:%s", path, is.Rule, is.Message)
	hash := blake2b.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:16]
}
