package testutil

import (
	"encoding/json"
	"strings"
	"testing"
)

// Normalizer defines the interface for normalizing golden test data.
type Normalizer interface {
	// Normalize processes the data for stable comparison.
	Normalize(t *testing.T, fixture *FixtureContext, data any) any
}

// DefaultNormalizer drops volatile fields and replaces the fixture root in
// strings with a placeholder.
type DefaultNormalizer struct{}

// Normalize applies all normalization rules for stable golden comparison.
// This is called before both compare AND update operations.
func (n *DefaultNormalizer) Normalize(t *testing.T, fixture *FixtureContext, data any) any {
	t.Helper()

	// Deep copy via JSON round-trip to avoid modifying original
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal data for normalization: %v", err)
	}

	var normalized any
	if err := json.Unmarshal(jsonBytes, &normalized); err != nil {
		t.Fatalf("Failed to unmarshal data for normalization: %v", err)
	}

	return n.normalizeValue(normalized, fixture.Root)
}

func (n *DefaultNormalizer) normalizeValue(v any, fixtureRoot string) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			// Skip volatile fields entirely
			if n.isVolatileField(k) {
				continue
			}
			result[k] = n.normalizeValue(item, fixtureRoot)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = n.normalizeValue(item, fixtureRoot)
		}
		return result
	case string:
		return n.normalizeString(val, fixtureRoot)
	default:
		return v
	}
}

func (n *DefaultNormalizer) normalizeString(s, fixtureRoot string) string {
	if fixtureRoot != "" {
		s = strings.ReplaceAll(s, fixtureRoot, "<fixture>")
	}
	return strings.ReplaceAll(s, "\\", "/")
}

func (n *DefaultNormalizer) isVolatileField(name string) bool {
	volatileFields := map[string]bool{
		"runId":     true,
		"timestamp": true,
		"duration":  true,
		"createdAt": true,
	}
	return volatileFields[name]
}

// MarshalNormalized normalizes data and marshals it to stable JSON bytes:
// sorted keys, 2-space indentation and a trailing newline.
func MarshalNormalized(t *testing.T, fixture *FixtureContext, data any) []byte {
	t.Helper()

	normalizer := &DefaultNormalizer{}
	normalized := normalizer.Normalize(t, fixture, data)

	// encoding/json writes map keys in sorted order
	bytes, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal normalized data: %v", err)
	}

	return append(bytes, '\n')
}
