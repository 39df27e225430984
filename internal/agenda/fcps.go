package agenda

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/thomas-vilte/agenda-generator/internal/logger"
	"github.com/thomas-vilte/agenda-generator/internal/models"
)

const waitingOnAuthorLabel = "S-waiting-on-author"

// ProposalSource lists open FCPs.
type ProposalSource interface {
	FetchProposals(ctx context.Context) ([]models.Proposal, error)
}

// StaleFilter narrows the FCP section to decisions that have stalled: not
// waiting on the author, status comment older than MinAge and untouched for
// QuietPeriod. Disabled by default.
type StaleFilter struct {
	Enabled     bool
	MinAge      time.Duration
	QuietPeriod time.Duration
}

// Apply returns the proposals the filter keeps, in their original order.
func (f StaleFilter) Apply(proposals []models.Proposal, now time.Time) []models.Proposal {
	if !f.Enabled {
		return proposals
	}

	var kept []models.Proposal
	for _, p := range proposals {
		if p.HasLabel(waitingOnAuthorLabel) {
			continue
		}
		created := p.StatusComment.CreatedAt.Time
		updated := p.StatusComment.UpdatedAt.Time
		if now.Sub(created) > f.MinAge && now.Sub(updated) > f.QuietPeriod {
			kept = append(kept, p)
		}
	}
	return kept
}

// FCPSummary is the FCP section's data for one team label.
type FCPSummary struct {
	Label string
	Total int
	// Groups are ordered by repository name.
	Groups []FCPGroup
	// Reviewers are ordered by login and only include reviewers with at
	// least one outstanding review.
	Reviewers []ReviewerLoad
}

type FCPGroup struct {
	Repo      string
	Proposals []models.Proposal
}

type ReviewerLoad struct {
	Login       string
	Outstanding int
}

// SummarizeFCPs keeps the proposals labeled with label and groups them by
// repository.
func SummarizeFCPs(proposals []models.Proposal, label string) FCPSummary {
	summary := FCPSummary{Label: label}

	byRepo := make(map[string][]models.Proposal)
	outstanding := make(map[string]int)

	for _, p := range proposals {
		if !p.HasLabel(label) {
			continue
		}
		summary.Total++
		byRepo[p.Issue.Repository] = append(byRepo[p.Issue.Repository], p)
		for _, r := range p.Reviews {
			if !r.CheckedOff {
				outstanding[r.Reviewer.Login]++
			}
		}
	}

	repos := make([]string, 0, len(byRepo))
	for repo := range byRepo {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	for _, repo := range repos {
		summary.Groups = append(summary.Groups, FCPGroup{Repo: repo, Proposals: byRepo[repo]})
	}

	logins := make([]string, 0, len(outstanding))
	for login := range outstanding {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	for _, login := range logins {
		summary.Reviewers = append(summary.Reviewers, ReviewerLoad{Login: login, Outstanding: outstanding[login]})
	}

	return summary
}

func (r *run) writeFCPs(ctx context.Context, label string) error {
	proposals, err := r.g.proposals.FetchProposals(ctx)
	if err != nil {
		return err
	}

	labeled := make([]models.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.HasLabel(label) {
			labeled = append(labeled, p)
		}
	}
	labeled = r.g.opts.StaleFilter.Apply(labeled, r.g.opts.Now().UTC())

	summary := SummarizeFCPs(labeled, label)
	logger.Info(ctx, "fcps summarized", "label", label, "fetched", len(proposals), "count", summary.Total)

	fmt.Fprintln(&r.doc, "### FCPs")
	fmt.Fprintln(&r.doc)
	fmt.Fprintf(&r.doc, "%d open %s FCPs:\n", summary.Total, label)

	for _, group := range summary.Groups {
		fmt.Fprintf(&r.doc,
			"<details><summary><a href=\"https://github.com/%s/issues?q=is%%3Aopen+label%%3A%s+label%%3Aproposed-final-comment-period\">%d <code>%s</code> FCPs</a></summary>\n\n",
			group.Repo, url.QueryEscape(label), len(group.Proposals), group.Repo)

		for _, p := range group.Proposals {
			fmt.Fprintf(&r.doc, "  - [[%s %d](%s)] *%s*",
				p.FCP.Disposition, p.Issue.Number, p.CommentURL(), Escape(p.Issue.Title))
			fmt.Fprintf(&r.doc, " - (%d checkboxes left)\n", p.Outstanding())
		}
		fmt.Fprintln(&r.doc, "</details>")
	}

	fmt.Fprint(&r.doc, "<p></p>\n\n")

	reviewers := make([]string, 0, len(summary.Reviewers))
	for _, rl := range summary.Reviewers {
		reviewers = append(reviewers, fmt.Sprintf("[%s (%d)](%s/fcp/%s)",
			rl.Login, rl.Outstanding, r.g.opts.RFCBotURL, rl.Login))
	}
	fmt.Fprintln(&r.doc, strings.Join(reviewers, ", "))
	fmt.Fprintln(&r.doc)

	return nil
}
