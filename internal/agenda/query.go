package agenda

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/thomas-vilte/agenda-generator/internal/logger"
	"github.com/thomas-vilte/agenda-generator/internal/models"
	"github.com/thomas-vilte/agenda-generator/internal/vcs"
)

// Sort is the order the tracker should return issues in. The zero value
// leaves the tracker's default order.
type Sort int

const (
	SortDefault Sort = iota
	SortNewest
	SortOldest
	SortMostCommented
	SortLeastCommented
	SortMostRecentlyUpdated
	SortLeastRecentlyUpdated
)

// APIParams returns the REST query parameters for the sort.
func (s Sort) APIParams() string {
	switch s {
	case SortNewest:
		return "&sort=created&direction=desc"
	case SortOldest:
		return "&sort=created&direction=asc"
	case SortMostCommented:
		return "&sort=comments&direction=desc"
	case SortLeastCommented:
		return "&sort=comments&direction=asc"
	case SortMostRecentlyUpdated:
		return "&sort=updated&direction=desc"
	case SortLeastRecentlyUpdated:
		return "&sort=updated&direction=asc"
	default:
		return ""
	}
}

// SearchTerms returns the same sort in web search syntax.
func (s Sort) SearchTerms() string {
	switch s {
	case SortNewest:
		return "+sort:created-desc"
	case SortOldest:
		return "+sort:created-asc"
	case SortMostCommented:
		return "+sort:comments-desc"
	case SortLeastCommented:
		return "+sort:comments-asc"
	case SortMostRecentlyUpdated:
		return "+sort:updated-desc"
	case SortLeastRecentlyUpdated:
		return "+sort:updated-asc"
	default:
		return ""
	}
}

// State filters issues by open/closed. The zero value is StateOpen.
type State int

const (
	StateOpen State = iota
	StateClosed
	StateAny
)

func (s State) APIParams() string {
	switch s {
	case StateClosed:
		return "&state=closed"
	case StateAny:
		return "&state=all"
	default:
		return "&state=open"
	}
}

func (s State) SearchTerms() string {
	switch s {
	case StateClosed:
		return "+is:closed"
	case StateAny:
		return ""
	default:
		return "+is:open"
	}
}

// Query describes one agenda section: which repositories to search and which
// label groups to look for. Labels inside a group are AND'd; groups are OR'd
// by fetching and listing each repo/group pair separately.
//
// Query is a value: the With* methods return modified copies.
type Query struct {
	Name                string
	LabelGroups         [][]string
	ExcludedLabelGroups [][]string
	Repos               []string
	Sort                Sort
	State               State
	// Limit caps each repo/group list after deduplication and exclusion.
	// Zero means no cap.
	Limit int
}

// Result is the non-empty issue list for one repo/label-group pair, in the
// order the tracker returned it.
type Result struct {
	Repo   string
	Labels []string
	Issues []models.Issue
}

func NewQuery(name string) Query {
	return Query{Name: name}
}

// WithLabels adds a label group; an issue matches it when it has all labels.
func (q Query) WithLabels(labels ...string) Query {
	q.LabelGroups = append(slices.Clone(q.LabelGroups), slices.Clone(labels))
	return q
}

// WithExcludedLabels drops any issue carrying every label in the group,
// whichever label group matched it.
func (q Query) WithExcludedLabels(labels ...string) Query {
	q.ExcludedLabelGroups = append(slices.Clone(q.ExcludedLabelGroups), slices.Clone(labels))
	return q
}

func (q Query) WithRepo(repo string) Query {
	q.Repos = append(slices.Clone(q.Repos), repo)
	return q
}

func (q Query) WithSort(sort Sort) Query {
	q.Sort = sort
	return q
}

func (q Query) WithState(state State) Query {
	q.State = state
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Endpoint is the REST path for one repo/label-group pair.
func (q Query) Endpoint(repo string, labels []string) string {
	escaped := make([]string, 0, len(labels))
	for _, l := range labels {
		escaped = append(escaped, url.QueryEscape(l))
	}
	return fmt.Sprintf("repos/%s/issues?labels=%s", repo, strings.Join(escaped, ",")) +
		q.State.APIParams() +
		q.Sort.APIParams()
}

// SearchURL is the web search equivalent of Endpoint.
func (q Query) SearchURL(repo string, labels []string) string {
	terms := make([]string, 0, len(labels))
	for _, l := range labels {
		terms = append(terms, "label:"+url.QueryEscape(l))
	}
	return fmt.Sprintf("https://github.com/%s/issues?q=%s", repo, strings.Join(terms, "+")) +
		q.State.SearchTerms() +
		q.Sort.SearchTerms()
}

// Execute fetches every repo/label-group pair, repos first, both in the order
// they were added. An issue already in seen is skipped; every issue looked at
// is recorded in seen before the exclusion check, and issues past Limit are
// never looked at. The first fetch error aborts the query.
func (q Query) Execute(ctx context.Context, tracker vcs.IssueTracker, seen *Seen) ([]Result, error) {
	var results []Result

	for _, repo := range q.Repos {
		for _, labels := range q.LabelGroups {
			issues, err := tracker.FetchIssues(ctx, q.Endpoint(repo, labels))
			if err != nil {
				return nil, err
			}

			kept := q.filter(issues, seen)
			logger.Debug(ctx, "query results",
				"query", q.Name, "repo", repo, "labels", strings.Join(labels, ","),
				"fetched", len(issues), "count", len(kept))

			if len(kept) == 0 {
				continue
			}
			results = append(results, Result{
				Repo:   repo,
				Labels: labels,
				Issues: kept,
			})
		}
	}

	return results, nil
}

func (q Query) filter(issues []models.Issue, seen *Seen) []models.Issue {
	var kept []models.Issue
	for _, issue := range issues {
		if q.Limit > 0 && len(kept) == q.Limit {
			break
		}
		if !seen.Insert(issue.URL) {
			continue
		}
		if q.excluded(issue) {
			continue
		}
		kept = append(kept, issue)
	}
	return kept
}

func (q Query) excluded(issue models.Issue) bool {
	for _, group := range q.ExcludedLabelGroups {
		if issue.HasAllLabels(group) {
			return true
		}
	}
	return false
}
