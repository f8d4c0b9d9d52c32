package main

import "fmt"

// Populated at release time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersionString() string {
	return fmt.Sprintf("reviewpilot %s (commit %s, built %s)", version, commit, date)
}
