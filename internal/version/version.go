// Package version exposes build metadata stamped via -ldflags.
package version

var (
	// Version is the release version of the tracer binary.
	Version = "0.1.0"

	// Commit is the git revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)
