package mocks

import (
	"context"

	"team-pdca/internal/model"

	"github.com/stretchr/testify/mock"
)

type TeamStore struct{ mock.Mock }

func (m *TeamStore) ListReduced(ctx context.Context) ([]model.TeamSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamSummary), args.Error(1)
}

func (m *TeamStore) ListFull(ctx context.Context) ([]model.TeamDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamDetail), args.Error(1)
}

func (m *TeamStore) Create(ctx context.Context, req model.CreateTeamRequest) (*model.Team, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *TeamStore) Update(ctx context.Context, teamID int, req model.UpdateTeamRequest) error {
	return m.Called(ctx, teamID, req).Error(0)
}

func (m *TeamStore) Delete(ctx context.Context, teamID int) error {
	return m.Called(ctx, teamID).Error(0)
}

func (m *TeamStore) Members(ctx context.Context, teamID int) ([]model.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamMember), args.Error(1)
}
