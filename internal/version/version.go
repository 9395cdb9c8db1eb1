package version

import (
	"fmt"
	"runtime"
)

// Name is the program name reported by the CLI and the MCP server
const Name = "codeguard"

// These variables are set via ldflags during build
var (
	// Version is the semantic version (e.g., v0.1.0)
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"

	// BuiltBy indicates who built the binary
	BuiltBy = "unknown"
)

// BuildInfo is the machine-readable form of the build metadata
type BuildInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	BuiltBy   string `json:"built_by"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build metadata
func Get() BuildInfo {
	return BuildInfo{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns version information as a formatted string
func Info() string {
	b := Get()
	return fmt.Sprintf(
		"%s %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s",
		b.Name,
		b.Version,
		b.Commit,
		b.Date,
		b.GoVersion,
		b.Platform,
	)
}

// Short returns just the version string
func Short() string {
	return Version
}
