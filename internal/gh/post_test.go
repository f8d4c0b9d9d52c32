package gh

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostInlineCommentSingleLine(t *testing.T) {
	var got map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/repos/octo/repo/pulls/42/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))

	status, err := client.PostInlineComment(t.Context(), "octo/repo", 42, InlineCommentRequest{
		Body:     "**[error] Race**\n\nbody",
		CommitID: "deadbeef",
		Path:     "cache.go",
		Line:     10,
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "cache.go", got["path"])
	assert.EqualValues(t, 10, got["line"])
	assert.Equal(t, "RIGHT", got["side"])
	assert.Equal(t, "deadbeef", got["commit_id"])
	assert.NotContains(t, got, "start_line")
}

func TestPostInlineCommentRange(t *testing.T) {
	var got map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))

	status, err := client.PostInlineComment(t.Context(), "octo/repo", 42, InlineCommentRequest{
		Body: "b", CommitID: "sha", Path: "a.go", Line: 12, StartLine: 8,
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 12, got["line"])
	assert.EqualValues(t, 8, got["start_line"])
	assert.Equal(t, "RIGHT", got["start_side"])
}

func TestPostInlineCommentOutOfDiff(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed", "errors": [{"message": "line must be part of the diff"}]}`))
	}))

	status, err := client.PostInlineComment(t.Context(), "octo/repo", 42, InlineCommentRequest{
		Body: "b", CommitID: "sha", Path: "a.go", Line: 9999,
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestPostInlineCommentNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClientWithHTTPClient(server.Client(), server.URL, "tok")
	require.NoError(t, err)
	server.Close() // connection refused from here on

	status, err := client.PostInlineComment(t.Context(), "octo/repo", 42, InlineCommentRequest{
		Body: "b", CommitID: "sha", Path: "a.go", Line: 1,
	})

	require.Error(t, err)
	assert.Zero(t, status, "requests that never reached the API report status 0")
}

func TestPostIssueComment(t *testing.T) {
	var got map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/octo/repo/issues/42/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))

	err := client.PostIssueComment(t.Context(), "octo/repo", 42, "## summary")

	require.NoError(t, err)
	assert.Equal(t, "## summary", got["body"])
}

func TestPostIssueCommentFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	err := client.PostIssueComment(t.Context(), "octo/repo", 42, "body")

	assert.Error(t, err)
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		in        string
		owner     string
		repo      string
		expectErr bool
	}{
		{"octo/repo", "octo", "repo", false},
		{"octo/repo/extra", "octo", "repo/extra", false},
		{"bare", "", "", true},
		{"/repo", "", "", true},
		{"owner/", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := splitRepo(tt.in)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}
