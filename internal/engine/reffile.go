package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// RefFileSizeThreshold is the prompt size (in bytes) above which we write
// to a temp file instead of passing via stdin. This avoids ARG_MAX-style
// limits and keeps stdin handover cheap for huge diffs. The engine has
// filesystem access and can read the file when instructed via the prompt.
const RefFileSizeThreshold = 100 * 1024 // 100KB

// WritePromptToTempFile writes the prompt to a uniquely named file in the
// working directory and returns its absolute path. The caller is
// responsible for cleanup (use CleanupTempFile).
func WritePromptToTempFile(workDir, prompt string) (string, error) {
	wd := workDir
	if wd == "" {
		var err error
		wd, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	tempPath := filepath.Join(wd, fmt.Sprintf(".reviewpilot-prompt-%s.md", uuid.New().String()))
	if err := os.WriteFile(tempPath, []byte(prompt), 0600); err != nil {
		return "", fmt.Errorf("failed to write prompt to temp file: %w", err)
	}

	absPath, err := filepath.Abs(tempPath)
	if err != nil {
		if rmErr := os.Remove(tempPath); rmErr != nil && !os.IsNotExist(rmErr) {
			fmt.Fprintf(os.Stderr, "Warning: failed to clean up temp file %s during error handling: %v\n", tempPath, rmErr)
		}
		return "", fmt.Errorf("failed to get absolute path for temp file: %w", err)
	}

	return absPath, nil
}

// CleanupTempFile removes a temporary file. Cleanup failures are logged
// but non-fatal.
func CleanupTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to clean up temp file %s: %v\n", path, err)
	}
}
