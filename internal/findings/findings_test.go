package findings

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := ArtifactPath(dir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), ArtifactName)

	out, err := Load(path)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNoArtifact)
	assert.True(t, SoftFailure(err))
}

func TestLoadMalformedArtifact(t *testing.T) {
	path := writeArtifact(t, "this is not json {")

	out, err := Load(path)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrBadArtifact)
	assert.True(t, SoftFailure(err))
}

func TestLoadValidArtifact(t *testing.T) {
	path := writeArtifact(t, `{
		"summary": "Two issues found.",
		"verdict": "request_changes",
		"findings": [
			{"path": "a.go", "line": 10, "end_line": 12, "severity": "error", "title": "Nil deref", "body": "x may be nil"}
		]
	}`)

	out, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Two issues found.", out.Summary)
	assert.Equal(t, domain.VerdictRequestChanges, out.Verdict)
	require.Len(t, out.Findings, 1)
	assert.Equal(t, domain.SeverityError, out.Findings[0].Severity)
	assert.Equal(t, 12, out.Findings[0].EndLine)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeArtifact(t, `{
		"findings": [
			{"path": "a.go", "line": 7, "title": "Check", "body": "b"}
		]
	}`)

	out, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "No summary.", out.Summary)
	assert.Equal(t, domain.VerdictComment, out.Verdict)
	assert.Equal(t, domain.SeveritySuggestion, out.Findings[0].Severity)
	assert.Equal(t, 7, out.Findings[0].EndLine)
}

func TestLoadUnknownVerdictAndSeverity(t *testing.T) {
	path := writeArtifact(t, `{
		"summary": "s",
		"verdict": "ship_it",
		"findings": [
			{"path": "a.go", "line": 3, "severity": "catastrophic", "title": "t", "body": "b"}
		]
	}`)

	out, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, domain.VerdictComment, out.Verdict)
	assert.Equal(t, domain.SeveritySuggestion, out.Findings[0].Severity)
}

func TestLoadEmptyFindings(t *testing.T) {
	path := writeArtifact(t, `{"summary": "All clean.", "verdict": "approve"}`)

	out, err := Load(path)

	require.NoError(t, err)
	assert.NotNil(t, out.Findings)
	assert.Empty(t, out.Findings)
}

func TestApplyDefaultsKeepsInvertedRange(t *testing.T) {
	out := &domain.ReviewOutput{
		Findings: []domain.Finding{{Path: "a.go", Line: 20, EndLine: 10, Title: "t", Body: "b"}},
	}

	ApplyDefaults(out)

	assert.Equal(t, 10, out.Findings[0].EndLine)
}

func TestFilterValid(t *testing.T) {
	in := []domain.Finding{
		{Path: "a.go", Line: 1, EndLine: 1, Severity: domain.SeverityWarning, Title: "ok", Body: "fine"},
		{Path: "", Line: 1, EndLine: 1, Title: "no path", Body: "b"},
		{Path: "b.go", Line: 0, EndLine: 0, Title: "no line", Body: "b"},
		{Path: "c.go", Line: -4, EndLine: 2, Title: "negative line", Body: "b"},
		{Path: "d.go", Line: 2, EndLine: 2, Title: "", Body: "no title"},
		{Path: "e.go", Line: 3, EndLine: 3, Title: "no body", Body: ""},
		{Path: "f.go", Line: 5, EndLine: 8, Severity: domain.SeverityError, Title: "also ok", Body: "fine"},
	}

	out := FilterValid(in, discardLogger())

	require.Len(t, out, 2)
	assert.Equal(t, "a.go", out[0].Path)
	assert.Equal(t, "f.go", out[1].Path)
}

func TestFilterValidEmptyInput(t *testing.T) {
	out := FilterValid(nil, discardLogger())
	assert.Empty(t, out)
}
