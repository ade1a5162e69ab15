// Package version carries the build version stamped via -ldflags.
package version

var Version = "dev"
