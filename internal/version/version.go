// Package version provides the single source of truth for esmap's version.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X esmap/internal/version.Version=1.0.0 -X esmap/internal/version.Commit=abc123"
var (
	// Version is the semantic version of esmap.
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time).
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time).
	BuildDate = "unknown"
)

// Info returns a short version string for log lines.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information.
func Full() string {
	return "esmap version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
