package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v82/github"
)

// InlineCommentRequest is one diff-anchored review comment submission.
// Line is the anchor on the RIGHT (head) side; StartLine, when non-zero,
// makes it a multi-line range comment starting there.
type InlineCommentRequest struct {
	Body      string
	CommitID  string
	Path      string
	Line      int
	StartLine int
}

// PostInlineComment submits one review comment anchored to the diff.
// The returned status code is what classification runs on: 2xx means the
// comment landed, anything else (canonically 422) means the target line
// is not part of the diff's visible context. A zero status means the
// request never reached the API.
func (c *Client) PostInlineComment(ctx context.Context, repoFullName string, prNumber int, req InlineCommentRequest) (int, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return 0, err
	}

	comment := &gogithub.PullRequestComment{
		Body:     gogithub.Ptr(req.Body),
		CommitID: gogithub.Ptr(req.CommitID),
		Path:     gogithub.Ptr(req.Path),
		Line:     gogithub.Ptr(req.Line),
		Side:     gogithub.Ptr("RIGHT"),
	}
	if req.StartLine > 0 {
		comment.StartLine = gogithub.Ptr(req.StartLine)
		comment.StartSide = gogithub.Ptr("RIGHT")
	}

	_, resp, err := c.gh.PullRequests.CreateComment(ctx, owner, repo, prNumber, comment)
	if err != nil {
		var ghErr *gogithub.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			return ghErr.Response.StatusCode, fmt.Errorf("creating review comment on %s#%d: %w", repoFullName, prNumber, err)
		}
		return 0, fmt.Errorf("creating review comment on %s#%d: %w", repoFullName, prNumber, err)
	}

	if resp != nil {
		return resp.StatusCode, nil
	}
	return http.StatusCreated, nil
}

// PostIssueComment creates a conversation-level comment on the PR, used
// for both the summary and the no-artifact notice.
func (c *Client) PostIssueComment(ctx context.Context, repoFullName string, prNumber int, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, _, err = c.gh.Issues.CreateComment(ctx, owner, repo, prNumber, &gogithub.IssueComment{
		Body: gogithub.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating issue comment on %s#%d: %w", repoFullName, prNumber, err)
	}

	return nil
}
