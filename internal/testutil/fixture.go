// Package testutil provides golden-file helpers for rule fixtures.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"jsstyle/internal/jsast"
)

// FixtureContext holds information about a loaded fixture suite.
type FixtureContext struct {
	// Suite is the fixture directory name under testdata/fixtures
	Suite string

	// Root is the absolute path to the suite directory
	Root string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string
}

// LoadFixture loads a fixture suite, failing the test on error.
func LoadFixture(t *testing.T, suite string) *FixtureContext {
	t.Helper()

	root := getFixturesRoot(t)
	fixtureDir := filepath.Join(root, suite)

	// Verify fixture exists
	if _, err := os.Stat(fixtureDir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", fixtureDir)
	}

	expectedDir := filepath.Join(fixtureDir, "expected")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		if err := os.MkdirAll(expectedDir, 0o755); err != nil {
			t.Fatalf("Failed to create expected directory: %v", err)
		}
	}

	return &FixtureContext{
		Suite:       suite,
		Root:        fixtureDir,
		ExpectedDir: expectedDir,
	}
}

// Inputs returns the names of the suite's source files, sorted.
func (f *FixtureContext) Inputs(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(f.Root)
	if err != nil {
		t.Fatalf("Failed to read fixture directory: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := jsast.LanguageFromPath(entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Read returns the contents of a file in the suite.
func (f *FixtureContext) Read(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(f.Root, name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return data
}

// Options decodes the suite's options.json, or returns nil when there is none.
func (f *FixtureContext) Options(t *testing.T) map[string]any {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(f.Root, "options.json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("Failed to read options.json: %v", err)
	}

	var opts map[string]any
	if err := json.Unmarshal(data, &opts); err != nil {
		t.Fatalf("Invalid options.json in %s: %v", f.Suite, err)
	}
	return opts
}

// ExpectedPath returns the path to a golden file within the fixture.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name)
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	// Get the directory of this source file
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}

// AvailableSuites returns the fixture suites whose name starts with prefix.
func AvailableSuites(t *testing.T, prefix string) []string {
	t.Helper()

	root := getFixturesRoot(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read fixtures directory: %v", err)
	}

	var suites []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() && !isHiddenDir(name) && len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			suites = append(suites, name)
		}
	}
	return suites
}

func isHiddenDir(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
