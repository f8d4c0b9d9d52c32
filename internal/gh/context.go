package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

// ErrPRNotFound indicates the queried pull request does not exist.
var ErrPRNotFound = errors.New("pull request not found")

// noDescription is substituted when a PR has an empty body so the prompt
// never carries a null-ish hole.
const noDescription = "(no description)"

// reviewContextQuery fetches everything the prompt needs in one round
// trip: PR metadata, a bounded page of conversation comments
// (oldest-first), and a bounded page of review threads, each with its
// own bounded page of comments plus resolution and outdated state.
const reviewContextQuery = `query($owner: String!, $repo: String!, $pr: Int!) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			title
			body
			author { login }
			baseRefName
			headRefName
			headRefOid
			comments(first: 100) {
				pageInfo { hasNextPage }
				nodes {
					author { login }
					body
					createdAt
				}
			}
			reviewThreads(first: 100) {
				pageInfo { hasNextPage }
				nodes {
					isResolved
					isOutdated
					path
					line
					startLine
					comments(first: 50) {
						nodes {
							author { login }
							body
							createdAt
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlActor struct {
	Login string `json:"login"`
}

type gqlComment struct {
	Author    *gqlActor `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type gqlPageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

// contextResponse represents the expected shape of the GraphQL response
// for the review context query.
type contextResponse struct {
	Data struct {
		Repository struct {
			PullRequest *struct {
				Title       string    `json:"title"`
				Body        string    `json:"body"`
				Author      *gqlActor `json:"author"`
				BaseRefName string    `json:"baseRefName"`
				HeadRefName string    `json:"headRefName"`
				HeadRefOid  string    `json:"headRefOid"`
				Comments    struct {
					PageInfo gqlPageInfo  `json:"pageInfo"`
					Nodes    []gqlComment `json:"nodes"`
				} `json:"comments"`
				ReviewThreads struct {
					PageInfo gqlPageInfo `json:"pageInfo"`
					Nodes    []struct {
						IsResolved bool   `json:"isResolved"`
						IsOutdated bool   `json:"isOutdated"`
						Path       string `json:"path"`
						Line       *int   `json:"line"`
						StartLine  *int   `json:"startLine"`
						Comments   struct {
							Nodes []gqlComment `json:"nodes"`
						} `json:"comments"`
					} `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchReviewContext retrieves PR metadata, conversation comments, and
// review threads in a single GraphQL query and normalizes them into a
// ReviewContext. Resolved threads are retained on purpose: their value is
// telling the engine "this was raised and fixed, do not repeat it".
// Any failure here is fatal for the run.
func (c *Client) FetchReviewContext(ctx context.Context, repoFullName string, prNumber int) (*domain.ReviewContext, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	reqBody := graphqlRequest{
		Query: reviewContextQuery,
		Variables: map[string]any{
			"owner": owner,
			"repo":  repo,
			"pr":    prNumber,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("graphql: marshaling context query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("graphql: creating context request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql: context query for %s#%d: %w", repoFullName, prNumber, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql: context query for %s#%d: HTTP %d", repoFullName, prNumber, resp.StatusCode)
	}

	var gqlResp contextResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("graphql: decoding context response for %s#%d: %w", repoFullName, prNumber, err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("graphql: context query for %s#%d: %s", repoFullName, prNumber, gqlResp.Errors[0].Message)
	}

	pr := gqlResp.Data.Repository.PullRequest
	if pr == nil {
		return nil, fmt.Errorf("%w: %s#%d", ErrPRNotFound, repoFullName, prNumber)
	}

	if pr.Comments.PageInfo.HasNextPage {
		slog.Warn("graphql: conversation comments exceed 100, digest is partial",
			"repo", repoFullName, "pr", prNumber)
	}
	if pr.ReviewThreads.PageInfo.HasNextPage {
		slog.Warn("graphql: review threads exceed 100, digest is partial",
			"repo", repoFullName, "pr", prNumber)
	}

	rc := &domain.ReviewContext{
		Title:   pr.Title,
		Body:    pr.Body,
		Author:  actorLogin(pr.Author),
		BaseRef: pr.BaseRefName,
		HeadRef: pr.HeadRefName,
		HeadSHA: pr.HeadRefOid,
	}
	if rc.Body == "" {
		rc.Body = noDescription
	}

	for _, n := range pr.Comments.Nodes {
		rc.ConversationComments = append(rc.ConversationComments, mapComment(n))
	}

	for _, n := range pr.ReviewThreads.Nodes {
		thread := domain.ReviewThread{
			IsResolved: n.IsResolved,
			IsOutdated: n.IsOutdated,
			Path:       n.Path,
			Line:       n.Line,
			StartLine:  n.StartLine,
		}
		for _, tc := range n.Comments.Nodes {
			thread.Comments = append(thread.Comments, mapComment(tc))
		}
		rc.ReviewThreads = append(rc.ReviewThreads, thread)
	}

	return rc, nil
}

func actorLogin(a *gqlActor) string {
	if a == nil {
		return "ghost" // deleted accounts come back as null authors
	}
	return a.Login
}

func mapComment(c gqlComment) domain.Comment {
	return domain.Comment{
		Author:    actorLogin(c.Author),
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
