package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reviewpilot/reviewpilot/internal/domain"
	"github.com/reviewpilot/reviewpilot/internal/gh"
)

// CommentPoster is the slice of the GitHub client the reconciler and
// summary poster depend on, kept narrow so tests can substitute a fake.
type CommentPoster interface {
	PostInlineComment(ctx context.Context, repoFullName string, prNumber int, req gh.InlineCommentRequest) (int, error)
	PostIssueComment(ctx context.Context, repoFullName string, prNumber int, body string) error
}

// Reconcile submits each finding as an inline review comment, in emission
// order, one at a time. Each finding gets exactly one submission attempt:
// a non-2xx response means the line is not part of the diff, which no
// retry can change, so the finding is reclassified as out-of-diff and the
// loop moves on. The engine is the sole deduplication authority; nothing
// is merged, sorted, or dropped here.
func Reconcile(ctx context.Context, poster CommentPoster, logger *slog.Logger, repo string, prNumber int, commitSHA string, fs []domain.Finding) []domain.PostResult {
	results := make([]domain.PostResult, 0, len(fs))

	for _, f := range fs {
		req := gh.InlineCommentRequest{
			Body:     FindingCommentBody(f),
			CommitID: commitSHA,
			Path:     f.Path,
			Line:     f.EndLine,
		}
		// Single-line findings anchor at the line alone; ranges set the
		// start anchor as well.
		if f.Line != f.EndLine {
			req.StartLine = f.Line
		}

		status, err := poster.PostInlineComment(ctx, repo, prNumber, req)
		if status >= 200 && status < 300 {
			logger.Debug("posted inline comment", "path", f.Path, "line", f.EndLine)
			results = append(results, domain.PostResult{Finding: f, Posted: true, HTTPStatus: status})
			continue
		}

		logger.Warn("finding is outside the diff, deferring to summary",
			"path", f.Path, "line", f.Line, "status", status, "error", err)
		results = append(results, domain.PostResult{Finding: f, Posted: false, HTTPStatus: status})
	}

	return results
}

// FindingCommentBody renders the markdown body for one inline comment.
func FindingCommentBody(f domain.Finding) string {
	return fmt.Sprintf("**[%s] %s**\n\n%s", f.Severity, f.Title, f.Body)
}

// OutOfDiff filters a result list down to the findings that could not be
// anchored, preserving order for the summary table.
func OutOfDiff(results []domain.PostResult) []domain.PostResult {
	var out []domain.PostResult
	for _, r := range results {
		if !r.Posted {
			out = append(out, r)
		}
	}
	return out
}
