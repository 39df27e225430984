package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type (
	// Proposal is one open FCP as reported by rfcbot's /api/all.
	Proposal struct {
		FCP           FCP           `json:"fcp"`
		Reviews       []Review      `json:"reviews"`
		Issue         ProposalIssue `json:"issue"`
		StatusComment StatusComment `json:"status_comment"`
	}

	FCP struct {
		ID          int        `json:"id"`
		Disposition string     `json:"disposition"`
		Start       *NaiveTime `json:"fcp_start"`
		Closed      bool       `json:"fcp_closed"`
	}

	// Review is a reviewer and whether they have checked off the proposal.
	// On the wire it is a two element array: [{"id":1,"login":"x"}, true].
	Review struct {
		Reviewer   User
		CheckedOff bool
	}

	User struct {
		ID    int    `json:"id"`
		Login string `json:"login"`
	}

	ProposalIssue struct {
		Number        int       `json:"number"`
		Title         string    `json:"title"`
		Open          bool      `json:"open"`
		IsPullRequest bool      `json:"is_pull_request"`
		Labels        []string  `json:"labels"`
		Repository    string    `json:"repository"`
		CreatedAt     NaiveTime `json:"created_at"`
		UpdatedAt     NaiveTime `json:"updated_at"`
	}

	StatusComment struct {
		ID        int64     `json:"id"`
		CreatedAt NaiveTime `json:"created_at"`
		UpdatedAt NaiveTime `json:"updated_at"`
	}
)

// HasLabel reports whether the proposal's issue carries the label.
func (p Proposal) HasLabel(name string) bool {
	for _, l := range p.Issue.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// Outstanding counts reviewers who have not checked off yet.
func (p Proposal) Outstanding() int {
	n := 0
	for _, r := range p.Reviews {
		if !r.CheckedOff {
			n++
		}
	}
	return n
}

// CommentURL links to rfcbot's status comment on the issue.
func (p Proposal) CommentURL() string {
	return fmt.Sprintf("https://github.com/%s/issues/%d#issuecomment-%d",
		p.Issue.Repository, p.Issue.Number, p.StatusComment.ID)
}

func (r *Review) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("review: expected [reviewer, checked_off], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.Reviewer); err != nil {
		return fmt.Errorf("review reviewer: %w", err)
	}
	if err := json.Unmarshal(raw[1], &r.CheckedOff); err != nil {
		return fmt.Errorf("review checked_off: %w", err)
	}
	return nil
}

func (r Review) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.Reviewer, r.CheckedOff})
}

// NaiveTime is a timestamp without a zone, as rfcbot serializes them. It is
// interpreted as UTC.
type NaiveTime struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

func (t *NaiveTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as a timestamp", s)
}

func (t NaiveTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05.999999"))
}
