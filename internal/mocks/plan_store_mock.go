package mocks

import (
	"context"

	"team-pdca/internal/model"
	"team-pdca/internal/service"

	"github.com/stretchr/testify/mock"
)

type PlanStore struct{ mock.Mock }

func (m *PlanStore) Create(ctx context.Context, ownerID int, req model.CreatePlanRequest) (*model.Plan, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *PlanStore) Get(ctx context.Context, planID int) (*service.PlanWithOwner, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlanWithOwner), args.Error(1)
}

func (m *PlanStore) List(ctx context.Context, f service.ListFilter) ([]model.PlanDetail, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PlanDetail), args.Error(1)
}

func (m *PlanStore) Update(ctx context.Context, planID, ownerID int, upd model.PlanUpdate) error {
	return m.Called(ctx, planID, ownerID, upd).Error(0)
}

func (m *PlanStore) Delete(ctx context.Context, planID, ownerID int) error {
	return m.Called(ctx, planID, ownerID).Error(0)
}

func (m *PlanStore) Copy(ctx context.Context, planID, ownerID int, targetDates []string) (int, error) {
	args := m.Called(ctx, planID, ownerID, targetDates)
	return args.Int(0), args.Error(1)
}

func (m *PlanStore) UpsertPdca(ctx context.Context, planID int, upd model.PdcaUpsert) (*model.PdcaRecord, bool, error) {
	args := m.Called(ctx, planID, upd)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.PdcaRecord), args.Bool(1), args.Error(2)
}

func (m *PlanStore) GetPdca(ctx context.Context, planID int) (*model.PdcaRecord, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PdcaRecord), args.Error(1)
}

type ReportStore struct{ mock.Mock }

func (m *ReportStore) Weekly(ctx context.Context, userID int, date string) (*model.WeeklyReport, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeeklyReport), args.Error(1)
}
