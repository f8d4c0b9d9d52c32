// Package domain provides core types for the review pipeline.
package domain

// ExitCode represents the exit status of the reviewer.
type ExitCode int

const (
	// ExitSuccess indicates the pipeline completed, including the
	// no-artifact soft-failure path (reviewed, nothing actionable).
	ExitSuccess ExitCode = 0
	// ExitError indicates the run aborted on a fatal error.
	ExitError ExitCode = 2
	// ExitInterrupted indicates the run was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
