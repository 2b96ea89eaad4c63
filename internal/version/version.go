package version

import (
	_ "embed"
	"runtime"
	"strings"
)

//go:embed VERSION
var versionFile string

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Version returns the current version of pgreconcile
func Version() string {
	return strings.TrimSpace(versionFile)
}

// App returns the program name with its version, as written in output
// headers.
func App() string {
	return "pgreconcile " + Version()
}

// Platform returns the OS/architecture combination
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
