// Package version holds build information injected at link time
package version

import "fmt"

// Build information set by ldflags, e.g.
// -X github.com/arthur-debert/wheelstage/internal/version.Version={{.Version}}
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build information for the version command
func String(app string) string {
	return fmt.Sprintf("%s version %s\nCommit: %s\nBuilt:  %s\n", app, Version, Commit, Date)
}
