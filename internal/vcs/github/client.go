package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
	"github.com/thomas-vilte/agenda-generator/internal/logger"
	"github.com/thomas-vilte/agenda-generator/internal/models"
	"github.com/thomas-vilte/agenda-generator/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.IssueTracker = (*GitHubClient)(nil)

type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient builds a client for apiURL. The token is optional: without
// it requests go out unauthenticated and GitHub rate-limits them.
func NewGitHubClient(apiURL, token, userAgent string) (*GitHubClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	return NewGitHubClientWithHTTP(httpClient, apiURL, userAgent)
}

func NewGitHubClientWithHTTP(httpClient *http.Client, apiURL, userAgent string) (*GitHubClient, error) {
	client := github.NewClient(httpClient)

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, domainErrors.ErrConfigInvalid.WithError(fmt.Errorf("github api url: %w", err))
		}
		client.BaseURL = u
	}
	if userAgent != "" {
		client.UserAgent = userAgent
	}

	return &GitHubClient{client: client}, nil
}

func (ghc *GitHubClient) FetchIssues(ctx context.Context, endpoint string) ([]models.Issue, error) {
	log := logger.FromContext(ctx)

	req, err := ghc.client.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domainErrors.ErrTrackerRequest.WithError(err).WithContext("endpoint", endpoint)
	}

	log.Debug("fetching issues", "endpoint", endpoint)

	var body bytes.Buffer
	if _, err := ghc.client.Do(ctx, req, &body); err != nil {
		return nil, classifyError(err, endpoint)
	}

	var raw []*github.Issue
	if err := json.Unmarshal(body.Bytes(), &raw); err != nil {
		return nil, domainErrors.ErrTrackerDecode.
			WithError(err).
			WithContext("endpoint", endpoint).
			WithContext("body", body.String())
	}

	issues := make([]models.Issue, 0, len(raw))
	for _, issue := range raw {
		if issue == nil {
			continue
		}
		issues = append(issues, toIssue(issue))
	}

	log.Debug("fetched issues", "endpoint", endpoint, "issues", len(issues))
	return issues, nil
}

func toIssue(issue *github.Issue) models.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}
	return models.Issue{
		Number: issue.GetNumber(),
		URL:    issue.GetHTMLURL(),
		Title:  issue.GetTitle(),
		Labels: labels,
	}
}

func classifyError(err error, endpoint string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domainErrors.ErrTrackerRateLimit.
			WithError(err).
			WithContext("endpoint", endpoint).
			WithContext("reset", rateErr.Rate.Reset.String())
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return domainErrors.ErrTrackerRateLimit.
			WithError(err).
			WithContext("endpoint", endpoint)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		appErr := domainErrors.ErrTrackerStatus.
			WithError(err).
			WithContext("endpoint", endpoint).
			WithContext("status", respErr.Response.StatusCode)
		if body := readBody(respErr.Response); body != "" {
			appErr = appErr.WithContext("body", body)
		}
		return appErr
	}

	return domainErrors.ErrTrackerRequest.WithError(err).WithContext("endpoint", endpoint)
}

// readBody relies on go-github restoring the body after CheckResponse.
func readBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(data)
}
