// Package engine invokes the external reasoning engine as a subprocess.
// The engine is treated as a black box: it receives the assembled prompt,
// has filesystem read access to the checkout, and is expected to write
// the review artifact before exiting 0. This package interprets nothing
// beyond the process exit status.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
)

// Error is a fatal engine failure: the subprocess exited non-zero.
// Engine failures are typically deterministic given the same prompt, so
// the run never retries; the captured log is surfaced instead.
type Error struct {
	ExitCode int
	Log      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine exited with status %d", e.ExitCode)
}

// Runner runs the engine CLI for a single review.
type Runner struct {
	// Command is the engine CLI executable name.
	Command string
	// Model is the model identifier passed to the engine. Empty leaves
	// the engine's default model in place.
	Model string
	// WorkDir is the PR checkout the engine runs in.
	WorkDir string
}

// Run feeds the prompt to the engine on stdin and blocks until the
// process exits, capturing combined stdout and stderr into a log buffer.
// Large prompts are handed over via a reference file instead (the engine
// can read files from the working directory). No timeout is enforced
// here; the surrounding CI job's limit is the outer bound.
//
// Returns the captured log. A non-zero exit surfaces as *Error.
func (r *Runner) Run(ctx context.Context, prompt string) (string, error) {
	if _, err := exec.LookPath(r.Command); err != nil {
		return "", fmt.Errorf("%s CLI not found in PATH: %w", r.Command, err)
	}

	var stdin io.Reader
	var tempFilePath string

	if len(prompt) > RefFileSizeThreshold {
		absPath, err := WritePromptToTempFile(r.WorkDir, prompt)
		if err != nil {
			return "", err
		}
		tempFilePath = absPath
		pointer := fmt.Sprintf("Your review instructions are in the file: %s\nRead that file and follow it exactly.", absPath)
		stdin = strings.NewReader(pointer)
	} else {
		stdin = strings.NewReader(prompt)
	}
	defer CleanupTempFile(tempFilePath)

	args := []string{"--print"}
	if r.Model != "" {
		args = append(args, "--model", r.Model)
	}
	args = append(args, "-")

	// #nosec G204 - Command is the configured engine CLI, not user input.
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = r.WorkDir
	cmd.Stdin = stdin

	// Combined output: the engine's stdout and stderr interleave into one
	// log buffer surfaced on failure.
	log := &bytes.Buffer{}
	cmd.Stdout = log
	cmd.Stderr = log

	// Process group so cancellation kills engine-spawned children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return log.String(), &Error{ExitCode: exitErr.ExitCode(), Log: log.String()}
		}
		return log.String(), fmt.Errorf("failed to run %s: %w", r.Command, err)
	}

	return log.String(), nil
}
