// Package build holds the build information injected at link time with -ldflags "-X".
package build

var (
	Version = "development"
	Commit  = "unknown"
	Time    = "unknown"
)
