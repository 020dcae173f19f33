// SPDX-License-Identifier: MIT
//
// Package build manages build metadata embedded into the binary at compile
// time via -ldflags (name, timestamp, git commit, semantic version). The
// values are surfaced by the CLI's --version output and in startup logs.
package build

import "fmt"

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Package-level variables populated by -ldflags during compilation.
// Development builds (plain `go run`/`go test`) leave them empty and fall
// back to the defaults below.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "haptic",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies build information from ldflags variables into the
// buildFlags struct. Empty ldflags keep their development defaults so that
// unstamped builds still run.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// VersionString renders the metadata in a single line suitable for logs
// and the CLI version flag.
func VersionString() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)",
		buildFlags.Name, buildFlags.Version, buildFlags.Commit, buildFlags.Time)
}
