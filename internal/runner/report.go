package runner

import (
	"fmt"
	"strings"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

// verdictGlyph maps a verdict to its badge. Unrecognized verdicts fall
// back to the comment glyph.
func verdictGlyph(v domain.Verdict) string {
	switch v {
	case domain.VerdictApprove:
		return "✅"
	case domain.VerdictRequestChanges:
		return "🔴"
	default:
		return "💬"
	}
}

func verdictLabel(v domain.Verdict) string {
	switch v {
	case domain.VerdictApprove:
		return "Approve"
	case domain.VerdictRequestChanges:
		return "Request changes"
	default:
		return "Comment"
	}
}

// RenderSummary composes the single aggregate summary comment: verdict
// badge, narrative summary, and - only when findings failed to anchor -
// a table of out-of-diff findings.
func RenderSummary(verdict domain.Verdict, summary string, outOfDiff []domain.PostResult, version string) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("## %s Automated review: %s", verdictGlyph(verdict), verdictLabel(verdict)))
	lines = append(lines, "")
	lines = append(lines, strings.TrimRight(summary, "\n"))

	if len(outOfDiff) > 0 {
		lines = append(lines, "")
		lines = append(lines, "### Findings outside the diff")
		lines = append(lines, "")
		lines = append(lines, "These could not be attached inline because their lines are not part of the current diff:")
		lines = append(lines, "")
		lines = append(lines, "| Location | Severity | Finding |")
		lines = append(lines, "| --- | --- | --- |")
		for _, r := range outOfDiff {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s |",
				findingLocation(r.Finding), r.Finding.Severity, escapeCell(r.Finding.Title)))
		}
	}

	lines = append(lines, "")
	lines = append(lines, "---")
	lines = append(lines, fmt.Sprintf("*Generated by reviewpilot %s*", version))

	return strings.Join(lines, "\n")
}

// RenderNoArtifactNotice is the conversation comment posted when the
// engine exited cleanly but produced no structured output.
func RenderNoArtifactNotice(version string) string {
	var lines []string
	lines = append(lines, "## 💬 Automated review")
	lines = append(lines, "")
	lines = append(lines, "The review engine completed but produced no structured output, so no inline comments were posted. This usually means there was nothing actionable to report.")
	lines = append(lines, "")
	lines = append(lines, "---")
	lines = append(lines, fmt.Sprintf("*Generated by reviewpilot %s*", version))
	return strings.Join(lines, "\n")
}

// findingLocation renders "path:line" or "path:line-endLine" for ranges.
func findingLocation(f domain.Finding) string {
	if f.EndLine != f.Line {
		return fmt.Sprintf("%s:%d-%d", f.Path, f.Line, f.EndLine)
	}
	return fmt.Sprintf("%s:%d", f.Path, f.Line)
}

// escapeCell keeps finding titles from breaking the markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
