// Package version holds build information for jsstyle.
package version

// Overridden at build time:
// go build -ldflags "-X jsstyle/internal/version.Version=1.0.0 -X jsstyle/internal/version.Commit=abc123"
var (
	// Version is the semantic version of jsstyle
	Version = "0.4.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns the version with a short commit suffix when one is known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line version banner printed by `jsstyle version`.
func Full() string {
	return "jsstyle " + Version + "\n" +
		"commit:  " + Commit + "\n" +
		"built:   " + BuildDate
}
