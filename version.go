package census

import (
	"fmt"
	"runtime"
)

var (
	// Version is the library semantic version (injected at build time optionally).
	Version = "1.0.0"
	// GitCommit is the git SHA (inject via -ldflags at build time).
	GitCommit = "unknown"
	// GoVersion records the Go toolchain version used.
	GoVersion = runtime.Version()
)

// defaultUserAgent identifies the library on every API request.
var defaultUserAgent = fmt.Sprintf("go-census/%s github.com/Metopio/census", Version)

// GetVersion returns a human-readable version string.
func GetVersion() string {
	return fmt.Sprintf("go-census v%s (commit: %s, go: %s)", Version, GitCommit, GoVersion)
}
