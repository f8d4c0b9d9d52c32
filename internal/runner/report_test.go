package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

func TestRenderSummaryVerdictBadges(t *testing.T) {
	tests := []struct {
		verdict domain.Verdict
		header  string
	}{
		{domain.VerdictApprove, "## ✅ Automated review: Approve"},
		{domain.VerdictRequestChanges, "## 🔴 Automated review: Request changes"},
		{domain.VerdictComment, "## 💬 Automated review: Comment"},
	}

	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			body := RenderSummary(tt.verdict, "All good.", nil, "1.2.3")
			assert.True(t, strings.HasPrefix(body, tt.header), "got header line %q", strings.SplitN(body, "\n", 2)[0])
		})
	}
}

func TestRenderSummaryOmitsTableWhenAllPosted(t *testing.T) {
	body := RenderSummary(domain.VerdictApprove, "Clean.", nil, "1.0.0")

	assert.NotContains(t, body, "Findings outside the diff")
	assert.NotContains(t, body, "| Location |")
}

func TestRenderSummaryOutOfDiffTable(t *testing.T) {
	outOfDiff := []domain.PostResult{
		{Finding: domain.Finding{Path: "a.go", Line: 10, EndLine: 10, Severity: domain.SeverityError, Title: "Nil deref"}, HTTPStatus: 422},
		{Finding: domain.Finding{Path: "b.go", Line: 5, EndLine: 9, Severity: domain.SeverityWarning, Title: "Leaky | pipe"}, HTTPStatus: 422},
	}

	body := RenderSummary(domain.VerdictRequestChanges, "Issues found.", outOfDiff, "1.0.0")

	assert.Contains(t, body, "### Findings outside the diff")
	assert.Contains(t, body, "| a.go:10 | error | Nil deref |")
	assert.Contains(t, body, "| b.go:5-9 | warning | Leaky \\| pipe |")
}

func TestRenderSummaryFooterCarriesVersion(t *testing.T) {
	body := RenderSummary(domain.VerdictComment, "s", nil, "9.8.7")
	assert.Contains(t, body, "*Generated by reviewpilot 9.8.7*")
}

func TestRenderNoArtifactNotice(t *testing.T) {
	body := RenderNoArtifactNotice("1.0.0")

	assert.Contains(t, body, "produced no structured output")
	assert.Contains(t, body, "*Generated by reviewpilot 1.0.0*")
	assert.NotContains(t, body, "Findings outside the diff")
}

func TestFindingLocation(t *testing.T) {
	assert.Equal(t, "x.go:4", findingLocation(domain.Finding{Path: "x.go", Line: 4, EndLine: 4}))
	assert.Equal(t, "x.go:4-9", findingLocation(domain.Finding{Path: "x.go", Line: 4, EndLine: 9}))
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, "a b", escapeCell("a\nb"))
	assert.Equal(t, "a \\| b", escapeCell("a | b"))
}
