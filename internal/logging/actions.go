package logging

import (
	"fmt"
	"io"
	"os"
)

// InActions reports whether the process is running inside a GitHub
// Actions job.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Group emits a GitHub Actions log-group marker around fatal error
// output so the failure is collapsible and clearly labeled in the job
// log. Outside Actions both calls are no-ops.
func Group(w io.Writer, name string) {
	if !InActions() {
		return
	}
	fmt.Fprintf(w, "::group::%s\n", name)
}

// EndGroup closes the current Actions log group.
func EndGroup(w io.Writer) {
	if !InActions() {
		return
	}
	fmt.Fprintln(w, "::endgroup::")
}

// ErrorAnnotation emits a GitHub Actions error annotation. Outside
// Actions it degrades to a plain line.
func ErrorAnnotation(w io.Writer, msg string) {
	if InActions() {
		fmt.Fprintf(w, "::error::%s\n", msg)
		return
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}
