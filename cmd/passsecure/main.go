// Package main is the pass-secure entry point.
package main

import (
	"github.com/passsecure/passsecure/internal/cli"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	cli.Execute(orDefault(version, "N/A"), orDefault(buildDate, "N/A"))
}

// orDefault is cmp.Or for strings; cmp.Or requires Go 1.22 and this
// module builds with Go 1.21.
func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
