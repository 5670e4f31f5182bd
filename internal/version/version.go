// Package version carries build metadata, overridden at release time
// with -ldflags "-X".
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String renders the version line printed by --version.
func String() string {
	return "clipkeep " + Version + " (" + Commit + ", built " + BuildDate + ", " + GoVersion + ")"
}
