// Package gh talks to GitHub: one GraphQL query for the review context,
// REST for posting review and conversation comments.
package gh

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
)

// graphqlTimeout bounds each GraphQL request as a safety net alongside
// context cancellation.
const graphqlTimeout = 30 * time.Second

// Client wraps the GitHub REST and GraphQL APIs for a single run.
type Client struct {
	gh         *gogithub.Client
	httpClient *http.Client // GraphQL requests share the REST transport stack.
	token      string       // Stored for the GraphQL Authorization header.
	graphqlURL string       // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gogithub.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh: client,
		httpClient: &http.Client{
			Transport: rateLimitClient.Transport,
			Timeout:   graphqlTimeout,
		},
		token:      token,
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// base URL, for tests that inject an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gogithub.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept
	// GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		httpClient: httpClient,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// splitRepo splits "owner/name" into its parts.
func splitRepo(repoFullName string) (owner, repo string, err error) {
	parts := strings.SplitN(repoFullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", repoFullName)
	}
	return parts[0], parts[1], nil
}
