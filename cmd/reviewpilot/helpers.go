package main

import (
	"fmt"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

// exitCodeError is a wrapper type for returning exit codes via the
// error interface, keeping cobra's RunE signature while controlling the
// process exit code precisely.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitError:
		return "review failed with error"
	case domain.ExitInterrupted:
		return "review was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitSuccess {
		return nil
	}
	return exitCodeError{code: code}
}
