package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
	"github.com/thomas-vilte/agenda-generator/internal/models"
)

const issuesJSON = `[
  {"number": 2, "html_url": "https://github.com/rust-lang/rust/issues/2", "title": "Newer",
   "labels": [{"name": "T-libs-api"}, {"name": "I-nominated"}, {"name": "P-high"}]},
  {"number": 1, "html_url": "https://github.com/rust-lang/rust/pull/1", "title": "Older", "labels": []}
]`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubClient_FetchIssues(t *testing.T) {
	t.Run("should decode issues in response order", func(t *testing.T) {
		var gotPath, gotLabels, gotState, gotSort, gotDirection string
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotLabels = r.URL.Query().Get("labels")
			gotState = r.URL.Query().Get("state")
			gotSort = r.URL.Query().Get("sort")
			gotDirection = r.URL.Query().Get("direction")
			_, _ = w.Write([]byte(issuesJSON))
		})
		client, err := NewGitHubClient(srv.URL, "", "agenda-test")
		require.NoError(t, err)

		issues, err := client.FetchIssues(context.Background(),
			"repos/rust-lang/rust/issues?labels=T-libs-api,I-nominated&state=open&sort=updated&direction=asc")

		require.NoError(t, err)
		assert.Equal(t, "/repos/rust-lang/rust/issues", gotPath)
		assert.Equal(t, "T-libs-api,I-nominated", gotLabels)
		assert.Equal(t, "open", gotState)
		assert.Equal(t, "updated", gotSort)
		assert.Equal(t, "asc", gotDirection)
		assert.Equal(t, []models.Issue{
			{Number: 2, URL: "https://github.com/rust-lang/rust/issues/2", Title: "Newer",
				Labels: []string{"T-libs-api", "I-nominated", "P-high"}},
			{Number: 1, URL: "https://github.com/rust-lang/rust/pull/1", Title: "Older",
				Labels: []string{}},
		}, issues)
	})

	t.Run("should send a bearer token only when configured", func(t *testing.T) {
		var auth, agent string
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			agent = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`[]`))
		})

		authed, err := NewGitHubClient(srv.URL, "s3cret", "agenda-test")
		require.NoError(t, err)
		_, err = authed.FetchIssues(context.Background(), "repos/a/b/issues?labels=x&state=open")
		require.NoError(t, err)
		assert.Equal(t, "Bearer s3cret", auth)
		assert.Equal(t, "agenda-test", agent)

		anon, err := NewGitHubClient(srv.URL, "", "agenda-test")
		require.NoError(t, err)
		_, err = anon.FetchIssues(context.Background(), "repos/a/b/issues?labels=x&state=open")
		require.NoError(t, err)
		assert.Empty(t, auth)
	})

	t.Run("should keep the raw body when it cannot be decoded", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message": "this is not a list"}`))
		})
		client, err := NewGitHubClient(srv.URL, "", "")
		require.NoError(t, err)

		_, err = client.FetchIssues(context.Background(), "repos/a/b/issues?labels=x&state=open")

		require.ErrorIs(t, err, domainErrors.ErrTrackerDecode)
		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, `{"message": "this is not a list"}`, appErr.Body())
		assert.Equal(t, "repos/a/b/issues?labels=x&state=open", appErr.Context["endpoint"])
		assert.Contains(t, err.Error(), "this is not a list")
	})

	t.Run("should keep the raw body of error responses", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
		})
		client, err := NewGitHubClient(srv.URL, "", "")
		require.NoError(t, err)

		_, err = client.FetchIssues(context.Background(), "repos/a/missing/issues?labels=x&state=open")

		require.ErrorIs(t, err, domainErrors.ErrTrackerStatus)
		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusNotFound, appErr.Context["status"])
		assert.Contains(t, appErr.Body(), "Not Found")
	})

	t.Run("should report rate limiting", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1700000000")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
		})
		client, err := NewGitHubClient(srv.URL, "", "")
		require.NoError(t, err)

		_, err = client.FetchIssues(context.Background(), "repos/a/b/issues?labels=x&state=open")

		assert.ErrorIs(t, err, domainErrors.ErrTrackerRateLimit)
	})

	t.Run("should report transport failures", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client, err := NewGitHubClient(srv.URL, "", "")
		require.NoError(t, err)

		_, err = client.FetchIssues(context.Background(), "repos/a/b/issues?labels=x&state=open")

		assert.ErrorIs(t, err, domainErrors.ErrTrackerRequest)
	})
}

func TestNewGitHubClient_BaseURL(t *testing.T) {
	client, err := NewGitHubClient("http://example.test/api/v3", "", "")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/api/v3/", client.client.BaseURL.String())

	defaulted, err := NewGitHubClient("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", defaulted.client.BaseURL.String())
}
