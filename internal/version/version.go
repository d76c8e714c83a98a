// Package version holds build metadata, set with
// -ldflags "-X github.com/linonon/aibookmarks/internal/version.Version=v0.1.0".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-10-14T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// String formats the metadata for a startup log line.
func String() string {
	return fmt.Sprintf("aibookmarks %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
