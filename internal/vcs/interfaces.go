package vcs

import (
	"context"

	"github.com/thomas-vilte/agenda-generator/internal/models"
)

// IssueTracker reads issue lists from a tracker's REST API.
type IssueTracker interface {
	// FetchIssues performs a GET on endpoint, a path relative to the API root
	// including its query string (for example
	// "repos/rust-lang/rust/issues?labels=T-libs,I-nominated&state=open"),
	// and returns the issues in the order the tracker returned them.
	FetchIssues(ctx context.Context, endpoint string) ([]models.Issue, error)
}
