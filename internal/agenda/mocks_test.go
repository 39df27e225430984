package agenda

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/agenda-generator/internal/models"
)

type MockIssueTracker struct {
	mock.Mock
}

func (m *MockIssueTracker) FetchIssues(ctx context.Context, endpoint string) ([]models.Issue, error) {
	args := m.Called(ctx, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Issue), args.Error(1)
}

type MockProposalSource struct {
	mock.Mock
}

func (m *MockProposalSource) FetchProposals(ctx context.Context) ([]models.Proposal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Proposal), args.Error(1)
}
