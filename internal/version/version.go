// Package version exposes build metadata injected at link time.
package version

// Set via -ldflags at build time, e.g.
//
//	go build -ldflags "-X .../internal/version.version=v1.2.3"
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
}

// Get returns the build information for this binary.
func Get() Info {
	return Info{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
	}
}
