package agenda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/agenda-generator/internal/models"
)

func day(s string) models.NaiveTime {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return models.NaiveTime{Time: t}
}

func review(login string, checked bool) models.Review {
	return models.Review{Reviewer: models.User{Login: login}, CheckedOff: checked}
}

func proposal(repo string, number int, commentID int64, disposition, title string, labels []string, reviews ...models.Review) models.Proposal {
	return models.Proposal{
		FCP:     models.FCP{Disposition: disposition},
		Reviews: reviews,
		Issue: models.ProposalIssue{
			Number:     number,
			Title:      title,
			Open:       true,
			Labels:     labels,
			Repository: repo,
		},
		StatusComment: models.StatusComment{ID: commentID},
	}
}

func sampleProposals() []models.Proposal {
	api := []string{"T-libs-api", "proposed-final-comment-period"}
	return []models.Proposal{
		proposal("rust-lang/rfcs", 5, 333, "merge", "RFC: baz", api,
			review("bob", false), review("carol", false)),
		proposal("rust-lang/rust", 100, 111, "merge", "Stabilize `foo`", api,
			review("alice", true), review("bob", true)),
		proposal("rust-lang/rust", 7, 444, "postpone", "Lang thing", []string{"T-lang"},
			review("dave", false)),
		proposal("rust-lang/rust", 101, 222, "close", "Remove bar", api,
			review("alice", false), review("carol", false)),
	}
}

func TestSummarizeFCPs(t *testing.T) {
	summary := SummarizeFCPs(sampleProposals(), "T-libs-api")

	assert.Equal(t, "T-libs-api", summary.Label)
	assert.Equal(t, 3, summary.Total)

	require.Len(t, summary.Groups, 2)
	assert.Equal(t, "rust-lang/rfcs", summary.Groups[0].Repo)
	assert.Equal(t, "rust-lang/rust", summary.Groups[1].Repo)
	require.Len(t, summary.Groups[1].Proposals, 2)
	assert.Equal(t, 100, summary.Groups[1].Proposals[0].Issue.Number)
	assert.Equal(t, 101, summary.Groups[1].Proposals[1].Issue.Number)

	assert.Equal(t, []ReviewerLoad{
		{Login: "alice", Outstanding: 1},
		{Login: "bob", Outstanding: 1},
		{Login: "carol", Outstanding: 2},
	}, summary.Reviewers)
}

func TestSummarizeFCPs_Empty(t *testing.T) {
	summary := SummarizeFCPs(nil, "T-libs")

	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Groups)
	assert.Empty(t, summary.Reviewers)
}

func TestStaleFilter_Apply(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	filter := StaleFilter{Enabled: true, MinAge: 4 * 7 * 24 * time.Hour, QuietPeriod: 5 * 24 * time.Hour}

	withComment := func(number int, created, updated string, labels ...string) models.Proposal {
		p := proposal("rust-lang/rust", number, int64(number), "merge", "p", append([]string{"T-libs-api"}, labels...))
		p.StatusComment.CreatedAt = day(created)
		p.StatusComment.UpdatedAt = day(updated)
		return p
	}

	proposals := []models.Proposal{
		withComment(1, "2024-01-01", "2024-02-01"),
		withComment(2, "2024-02-20", "2024-02-20"),
		withComment(3, "2024-01-01", "2024-03-03"),
		withComment(4, "2024-01-01", "2024-02-01", "S-waiting-on-author"),
		withComment(5, "2023-06-01", "2023-07-01"),
	}

	t.Run("should keep only stalled proposals", func(t *testing.T) {
		kept := filter.Apply(proposals, now)

		var numbers []int
		for _, p := range kept {
			numbers = append(numbers, p.Issue.Number)
		}
		assert.Equal(t, []int{1, 5}, numbers)
	})

	t.Run("should pass everything through when disabled", func(t *testing.T) {
		disabled := filter
		disabled.Enabled = false

		assert.Len(t, disabled.Apply(proposals, now), len(proposals))
	})
}

func TestRun_WriteFCPs(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }

	t.Run("should group by repository and list reviewer load", func(t *testing.T) {
		source := &MockProposalSource{}
		source.On("FetchProposals", mock.Anything).Return(sampleProposals(), nil)
		g := NewGenerator(&MockIssueTracker{}, source, Options{Now: now})
		r := &run{g: g, seen: NewSeen()}

		require.NoError(t, r.writeFCPs(ctx, "T-libs-api"))

		want := "### FCPs\n\n" +
			"3 open T-libs-api FCPs:\n" +
			"<details><summary><a href=\"https://github.com/rust-lang/rfcs/issues?q=is%3Aopen+label%3AT-libs-api+label%3Aproposed-final-comment-period\">1 <code>rust-lang/rfcs</code> FCPs</a></summary>\n\n" +
			"  - [[merge 5](https://github.com/rust-lang/rfcs/issues/5#issuecomment-333)] *RFC: baz* - (2 checkboxes left)\n" +
			"</details>\n" +
			"<details><summary><a href=\"https://github.com/rust-lang/rust/issues?q=is%3Aopen+label%3AT-libs-api+label%3Aproposed-final-comment-period\">2 <code>rust-lang/rust</code> FCPs</a></summary>\n\n" +
			"  - [[merge 100](https://github.com/rust-lang/rust/issues/100#issuecomment-111)] *Stabilize \\`foo\\`* - (0 checkboxes left)\n" +
			"  - [[close 101](https://github.com/rust-lang/rust/issues/101#issuecomment-222)] *Remove bar* - (2 checkboxes left)\n" +
			"</details>\n" +
			"<p></p>\n\n" +
			"[alice (1)](https://rfcbot.rs/fcp/alice), [bob (1)](https://rfcbot.rs/fcp/bob), [carol (2)](https://rfcbot.rs/fcp/carol)\n" +
			"\n"
		assert.Equal(t, want, r.doc.String())
		source.AssertExpectations(t)
	})

	t.Run("should link reviewers to the configured rfcbot host", func(t *testing.T) {
		source := &MockProposalSource{}
		source.On("FetchProposals", mock.Anything).Return(sampleProposals()[:1], nil)
		g := NewGenerator(&MockIssueTracker{}, source, Options{Now: now, RFCBotURL: "http://localhost:8080/"})
		r := &run{g: g, seen: NewSeen()}

		require.NoError(t, r.writeFCPs(ctx, "T-libs-api"))

		assert.Contains(t, r.doc.String(), "[bob (1)](http://localhost:8080/fcp/bob), [carol (1)](http://localhost:8080/fcp/carol)\n")
	})

	t.Run("should apply the stale filter when enabled", func(t *testing.T) {
		proposals := sampleProposals()
		for i := range proposals {
			proposals[i].StatusComment.CreatedAt = day("2024-03-01")
			proposals[i].StatusComment.UpdatedAt = day("2024-03-01")
		}
		proposals[3].StatusComment.CreatedAt = day("2023-12-01")

		source := &MockProposalSource{}
		source.On("FetchProposals", mock.Anything).Return(proposals, nil)
		g := NewGenerator(&MockIssueTracker{}, source, Options{
			Now:         now,
			StaleFilter: StaleFilter{Enabled: true, MinAge: 28 * 24 * time.Hour, QuietPeriod: 2 * 24 * time.Hour},
		})
		r := &run{g: g, seen: NewSeen()}

		require.NoError(t, r.writeFCPs(ctx, "T-libs-api"))

		out := r.doc.String()
		assert.Contains(t, out, "1 open T-libs-api FCPs:\n")
		assert.Contains(t, out, "[[close 101]")
		assert.NotContains(t, out, "[[merge 100]")
		assert.Contains(t, out, "[alice (1)](https://rfcbot.rs/fcp/alice), [carol (1)](https://rfcbot.rs/fcp/carol)\n")
	})

	t.Run("should write an empty section when nothing matches", func(t *testing.T) {
		source := &MockProposalSource{}
		source.On("FetchProposals", mock.Anything).Return([]models.Proposal{}, nil)
		g := NewGenerator(&MockIssueTracker{}, source, Options{Now: now})
		r := &run{g: g, seen: NewSeen()}

		require.NoError(t, r.writeFCPs(ctx, "PG-error-handling"))

		assert.Equal(t, "### FCPs\n\n0 open PG-error-handling FCPs:\n<p></p>\n\n\n\n", r.doc.String())
	})

	t.Run("should return fetch errors", func(t *testing.T) {
		source := &MockProposalSource{}
		source.On("FetchProposals", mock.Anything).Return(nil, assert.AnError)
		g := NewGenerator(&MockIssueTracker{}, source, Options{Now: now})
		r := &run{g: g, seen: NewSeen()}

		err := r.writeFCPs(ctx, "T-libs")

		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, r.doc.String())
	})
}
