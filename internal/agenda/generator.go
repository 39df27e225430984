package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
	"github.com/thomas-vilte/agenda-generator/internal/logger"
	"github.com/thomas-vilte/agenda-generator/internal/models"
	"github.com/thomas-vilte/agenda-generator/internal/vcs"
)

const (
	finishedFCPLabel   = "finished-final-comment-period"
	dispositionPrefix  = "disposition-"
	priorityPrefix     = "P-"
	defaultRFCBotURL   = "https://rfcbot.rs"
	attributionLine    = "_Generated by [fully-automatic-rust-libs-team-triage-meeting-agenda-generator](https://github.com/rust-lang/libs-team/tree/main/tools/agenda-generator)_"
	actionsFooterStart = "- [ ] Reply to all issues/PRs discussed in this meeting, or add them to the [open action items]"
)

type Options struct {
	StaleFilter StaleFilter
	// RFCBotURL is the base for reviewer profile links.
	RFCBotURL string
	// Now is used for the title date and the stale filter.
	Now func() time.Time
}

type Generator struct {
	tracker   vcs.IssueTracker
	proposals ProposalSource
	opts      Options
}

func NewGenerator(tracker vcs.IssueTracker, proposals ProposalSource, opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RFCBotURL == "" {
		opts.RFCBotURL = defaultRFCBotURL
	}
	opts.RFCBotURL = strings.TrimSuffix(opts.RFCBotURL, "/")
	return &Generator{
		tracker:   tracker,
		proposals: proposals,
		opts:      opts,
	}
}

// run holds the state of a single document: its text and the issues already
// listed in it.
type run struct {
	g    *Generator
	doc  strings.Builder
	seen *Seen
}

// Generate renders the agenda for variant.
func (g *Generator) Generate(ctx context.Context, variant Variant) (string, error) {
	a, ok := Agendas[variant]
	if !ok {
		return "", domainErrors.ErrUnknownVariant.WithContext("variant", string(variant))
	}
	return g.Render(logger.With(ctx, "variant", string(variant)), a)
}

// Render writes a into a new document. Nothing is returned unless every
// fetch succeeded.
func (g *Generator) Render(ctx context.Context, a Agenda) (string, error) {
	r := &run{g: g, seen: NewSeen()}

	fmt.Fprintf(&r.doc, "# %s %s\n\n", a.Title, g.opts.Now().UTC().Format("2006-01-02"))
	fmt.Fprint(&r.doc, a.Preamble)
	fmt.Fprint(&r.doc, "\n## Triage\n\n")

	if a.FCPLabel != "" {
		if err := r.writeFCPs(ctx, a.FCPLabel); err != nil {
			return "", inSection(err, "FCPs")
		}
	}

	for _, q := range a.Queries {
		if err := r.writeQuery(ctx, q); err != nil {
			return "", err
		}
	}

	fmt.Fprint(&r.doc, "## Actions\n\n")
	fmt.Fprintf(&r.doc, "%s(%s).\n\n", actionsFooterStart, a.ActionItemsURL)
	fmt.Fprintln(&r.doc, attributionLine)

	logger.Info(ctx, "agenda rendered", "issues", r.seen.Len())
	return r.doc.String(), nil
}

func (r *run) writeQuery(ctx context.Context, q Query) error {
	results, err := q.Execute(ctx, r.g.tracker, r.seen)
	if err != nil {
		return inSection(err, q.Name)
	}

	fmt.Fprintf(&r.doc, "### %s\n\n", q.Name)

	for _, res := range results {
		fmt.Fprintf(&r.doc, "- [%d `%s` `%s` items](%s)\n",
			len(res.Issues), res.Repo, strings.Join(res.Labels, "` `"), q.SearchURL(res.Repo, res.Labels))
		r.writeIssues(res.Issues)
	}

	if len(results) == 0 {
		fmt.Fprintln(&r.doc, "None")
	}
	fmt.Fprintln(&r.doc)

	return nil
}

// writeIssues lists issues oldest first, the reverse of fetch order.
func (r *run) writeIssues(issues []models.Issue) {
	for i := len(issues) - 1; i >= 0; i-- {
		issue := issues[i]

		fmt.Fprintf(&r.doc, "  - [[%d](%s)]", issue.Number, issue.URL)
		for _, label := range issue.Labels {
			if strings.HasPrefix(label, priorityPrefix) {
				fmt.Fprintf(&r.doc, " `%s`", label)
			}
		}
		fmt.Fprintf(&r.doc, " *%s*\n", strings.TrimSpace(Escape(issue.Title)))

		if issue.HasLabel(finishedFCPLabel) {
			fmt.Fprint(&r.doc, "    FCP finished.")
			for _, label := range issue.Labels {
				if disposition, ok := strings.CutPrefix(label, dispositionPrefix); ok {
					fmt.Fprintf(&r.doc, " Should be %sd?", disposition)
				}
			}
			fmt.Fprintln(&r.doc)
		}
	}
}

// inSection records which agenda section was being written when err happened.
func inSection(err error, section string) error {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithContext("section", section)
	}
	return fmt.Errorf("%s: %w", section, err)
}
