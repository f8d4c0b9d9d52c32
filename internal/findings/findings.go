// Package findings locates and validates the engine's output artifact.
// All schema defaults are applied here, once, at the validation boundary;
// downstream consumers never default-fill.
package findings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

// ArtifactName is the well-known artifact filename the engine is
// instructed to write in the checkout root.
const ArtifactName = "reviewpilot-output.json"

// ErrNoArtifact indicates the engine exited 0 but wrote no artifact.
// This is a soft failure: the run still notifies the PR and exits clean.
var ErrNoArtifact = errors.New("engine produced no output artifact")

// ErrBadArtifact indicates the artifact exists but is not valid JSON for
// the expected schema. Treated the same as a missing artifact: the run
// degrades to a notice comment instead of crashing.
var ErrBadArtifact = errors.New("engine output artifact is malformed")

// ArtifactPath returns the artifact location for a checkout.
func ArtifactPath(workDir string) string {
	return filepath.Join(workDir, ArtifactName)
}

// SoftFailure reports whether err is one of the non-fatal artifact
// conditions.
func SoftFailure(err error) bool {
	return errors.Is(err, ErrNoArtifact) || errors.Is(err, ErrBadArtifact)
}

// Load reads the artifact and decodes it into a ReviewOutput with all
// defaults applied. Absence and malformation surface as soft failures.
func Load(path string) (*domain.ReviewOutput, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoArtifact, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var out domain.ReviewOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArtifact, err)
	}

	ApplyDefaults(&out)
	return &out, nil
}

// ApplyDefaults fills the schema defaults in place: summary, verdict,
// per-finding severity, and end line. An end line before the start line
// is passed through unmodified; the comment API decides what to do with
// it.
func ApplyDefaults(out *domain.ReviewOutput) {
	if out.Summary == "" {
		out.Summary = "No summary."
	}
	if !out.Verdict.Valid() {
		out.Verdict = domain.VerdictComment
	}
	if out.Findings == nil {
		out.Findings = []domain.Finding{}
	}
	for i := range out.Findings {
		f := &out.Findings[i]
		if !f.Severity.Valid() {
			f.Severity = domain.SeveritySuggestion
		}
		if f.EndLine == 0 {
			f.EndLine = f.Line
		}
	}
}

// FilterValid drops findings missing required fields (path, line, title,
// body), logging each skip. A malformed finding never aborts the run.
func FilterValid(in []domain.Finding, logger *slog.Logger) []domain.Finding {
	out := make([]domain.Finding, 0, len(in))
	for _, f := range in {
		if f.Path == "" || f.Line <= 0 || f.Title == "" || f.Body == "" {
			logger.Warn("skipping malformed finding",
				"path", f.Path, "line", f.Line, "title", f.Title)
			continue
		}
		out = append(out, f)
	}
	return out
}
