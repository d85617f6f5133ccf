package main

import (
	"context"

	"github.com/3leaps/s3path/internal/cmd"
	"github.com/3leaps/s3path/internal/observability"
)

// Build-time metadata, injected via -ldflags.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	defer observability.Sync()
	cmd.SetVersionInfo(version, commit, buildDate)
	cmd.Execute(context.Background())
}
