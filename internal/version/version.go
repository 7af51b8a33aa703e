// Package version carries build metadata for the preproc CLI.
package version

import "github.com/fatih/color"

// These variables can be overridden at build time via -ldflags.

var (
	versionColor = color.New(color.FgCyan, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.2.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Pretty returns the version string with terminal coloring applied.
func Pretty() string {
	return versionColor.Sprint(Version)
}
