package version

// Injected at build time through -ldflags.
var (
	// Version is the semantic version of the current build.
	Version = "dev"

	// GitHash is the git commit hash of the current build.
	GitHash = "unknown"

	// Timestamp is the build timestamp of the current build.
	Timestamp = "unknown"
)
