// Package build holds build-time metadata stamped in via -ldflags.
package build

var (
	// Version is the release version of the binary.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = ""
)
