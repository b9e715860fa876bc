package suifund

import (
	"fmt"
	"runtime"
)

// Overwritten at build time via ldflags.
var (
	CurrentVersion = "dev"
	CurrentBranch  = "unknown"
	CurrentCommit  = "unknown"
	BuildDate      = "unknown"
)

var (
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	GoVersion = runtime.Version()
)
