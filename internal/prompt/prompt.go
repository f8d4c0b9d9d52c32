// Package prompt assembles the instruction document fed to the review
// engine. Assembly is a pure function: identical inputs yield a
// byte-identical document.
package prompt

import (
	"fmt"
	"strings"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

// fixedRules is the standing instruction block. It always leads the
// document and is never reordered relative to the other sections.
// The %s placeholder receives the artifact path.
const fixedRules = `You are reviewing a GitHub pull request.

## Rules

1. You have read access to the full checkout. Do NOT limit yourself to
   the diff below - use your file-reading capability to examine full
   files, trace call sites, and check related tests.

2. The existing conversation and review threads below are no-repeat
   zones. This applies to RESOLVED threads as much as UNRESOLVED ones:
   a resolved thread means the issue was raised and fixed - do not
   raise it again.

3. Every finding must cite the exact file path and line numbers as they
   appear in the HEAD version of the pull request.

4. When you are done, write your review as a single JSON file at:

   %s

   The file must match this schema exactly:

   {
     "summary": "one-paragraph narrative summary of the review",
     "verdict": "approve" | "request_changes" | "comment",
     "findings": [
       {
         "path": "relative/file/path.go",
         "line": 10,
         "end_line": 12,
         "severity": "error" | "warning" | "suggestion",
         "title": "short finding title",
         "body": "full finding description in markdown"
       }
     ]
   }

   If there is nothing to report, write the file with an empty findings
   array. Do not write anything else to that path.`

// truncationAdvisory is appended to the diff section when the diff was
// cut to the byte budget.
const truncationAdvisory = `NOTE: the diff below was truncated to fit a size budget and may end
mid-line. Use your file-reading capability to inspect anything beyond
the cut.`

// Assemble composes the prompt document from the review context, the
// diff bundle, optional custom instructions, and the artifact path the
// engine must write to. Section order is fixed: rules, custom
// instructions, PR summary, conversation digest, thread digest, diff.
func Assemble(rc *domain.ReviewContext, bundle *domain.DiffBundle, custom, artifactPath string) string {
	var b strings.Builder

	fmt.Fprintf(&b, fixedRules, artifactPath)
	b.WriteString("\n")

	if custom != "" {
		b.WriteString("\n## Custom review instructions\n\n")
		b.WriteString(strings.TrimRight(custom, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n## Pull request\n\n")
	fmt.Fprintf(&b, "Title: %s\n", rc.Title)
	fmt.Fprintf(&b, "Author: %s\n", rc.Author)
	fmt.Fprintf(&b, "Branches: %s...%s\n\n", rc.BaseRef, rc.HeadRef)
	b.WriteString(rc.Body)
	b.WriteString("\n")

	b.WriteString("\n## Existing conversation\n\n")
	if len(rc.ConversationComments) == 0 {
		b.WriteString("(none)\n")
	}
	for _, c := range rc.ConversationComments {
		fmt.Fprintf(&b, "- %s: %s\n", c.Author, singleLine(c.Body))
	}

	b.WriteString("\n## Existing review threads\n\n")
	if len(rc.ReviewThreads) == 0 {
		b.WriteString("(none)\n")
	}
	for _, t := range rc.ReviewThreads {
		fmt.Fprintf(&b, "- [%s] %s%s\n", resolutionTag(t), ThreadAnchor(t), outdatedTag(t))
		for _, c := range t.Comments {
			fmt.Fprintf(&b, "  - %s: %s\n", c.Author, singleLine(c.Body))
		}
	}

	b.WriteString("\n## Diff\n\n")
	if bundle.Truncated {
		b.WriteString(truncationAdvisory)
		b.WriteString("\n\n")
	}
	b.WriteString("```diff\n")
	b.Write(bundle.RawDiff)
	if len(bundle.RawDiff) > 0 && bundle.RawDiff[len(bundle.RawDiff)-1] != '\n' {
		b.WriteString("\n")
	}
	b.WriteString("```\n")

	return b.String()
}

// ThreadAnchor renders a thread's location: "path:10", "path:8-12" for a
// multi-line anchor, or "path (file-level)" when the thread has no line.
func ThreadAnchor(t domain.ReviewThread) string {
	if t.Line == nil {
		return fmt.Sprintf("%s (file-level)", t.Path)
	}
	if t.StartLine != nil && *t.StartLine != *t.Line {
		return fmt.Sprintf("%s:%d-%d", t.Path, *t.StartLine, *t.Line)
	}
	return fmt.Sprintf("%s:%d", t.Path, *t.Line)
}

func resolutionTag(t domain.ReviewThread) string {
	if t.IsResolved {
		return "RESOLVED"
	}
	return "UNRESOLVED"
}

func outdatedTag(t domain.ReviewThread) string {
	if t.IsOutdated {
		return " (outdated)"
	}
	return ""
}

// singleLine collapses a comment body onto one line so the digest stays
// one entry per comment.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
