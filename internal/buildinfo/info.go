// Package buildinfo holds version details stamped in with -ldflags:
//
//	go build -ldflags "-X github.com/vaultbook/vaultbook/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build details for --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
