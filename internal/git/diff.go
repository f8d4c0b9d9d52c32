// Package git produces the base...head diff for a review run.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

// diffContextLines is the fixed context radius around changes.
const diffContextLines = 5

// RefResolved reports whether ref resolves to a commit in the repository.
func RefResolved(ctx context.Context, workDir, ref string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// FetchRef fetches a ref from origin so it can be resolved locally.
func FetchRef(ctx context.Context, workDir, ref string) error {
	cmd := exec.CommandContext(ctx, "git", "fetch", "origin", ref)
	cmd.Dir = workDir
	if out, err := cmd.CombinedOutput(); err != nil {
		output := strings.TrimSpace(string(out))
		if output != "" {
			return fmt.Errorf("failed to fetch '%s' from origin: %s", ref, output)
		}
		return fmt.Errorf("failed to fetch '%s' from origin: %w", ref, err)
	}
	return nil
}

// rawDiff runs git diff with the fixed context radius between two refs
// using three-dot notation (changes on head since the merge base).
func rawDiff(ctx context.Context, workDir, base, head string) ([]byte, error) {
	spec := fmt.Sprintf("%s...%s", base, head)
	cmd := exec.CommandContext(ctx, "git", "diff", fmt.Sprintf("-U%d", diffContextLines), spec)
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		if stderr != "" {
			return nil, fmt.Errorf("git diff %s failed: %s", spec, stderr)
		}
		return nil, fmt.Errorf("git diff %s failed: %w", spec, err)
	}
	return out, nil
}

// BuildDiff computes the diff between baseRef and headRef and applies the
// byte-budget truncation policy. Both refs are resolved locally first,
// fetching from origin when needed. If the primary pair cannot be diffed,
// it falls back to diffing HEAD against the remote-tracking base branch.
// Both paths failing is fatal for the run.
func BuildDiff(ctx context.Context, workDir, baseRef, headRef string, maxBytes int) (*domain.DiffBundle, error) {
	for _, ref := range []string{baseRef, headRef} {
		if !RefResolved(ctx, workDir, ref) {
			if err := FetchRef(ctx, workDir, ref); err != nil {
				continue // fallback path may still work
			}
		}
	}

	raw, primaryErr := rawDiff(ctx, workDir, baseRef, headRef)
	if primaryErr == nil {
		return Truncate(raw, maxBytes), nil
	}

	fallbackBase := "origin/" + baseRef
	raw, fallbackErr := rawDiff(ctx, workDir, fallbackBase, "HEAD")
	if fallbackErr == nil {
		return Truncate(raw, maxBytes), nil
	}

	return nil, fmt.Errorf("diff failed for %s...%s (%v) and fallback %s...HEAD: %w",
		baseRef, headRef, primaryErr, fallbackBase, fallbackErr)
}

// Truncate applies the byte-budget policy: a prefix cut to exactly max
// bytes, with no regard for hunk or UTF-8 boundaries. Diffs at or under
// the budget pass through byte-identical.
func Truncate(raw []byte, max int) *domain.DiffBundle {
	bundle := &domain.DiffBundle{
		RawDiff:       raw,
		OriginalSize:  len(raw),
		TruncatedSize: len(raw),
	}
	if max > 0 && len(raw) > max {
		bundle.RawDiff = raw[:max]
		bundle.Truncated = true
		bundle.TruncatedSize = max
	}
	return bundle
}
