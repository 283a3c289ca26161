package version

import "fmt"

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0"

	// GitCommit is set at build time with -ldflags.
	GitCommit string
)

// FullVersion returns the version with the commit, if known.
func FullVersion() string {
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
