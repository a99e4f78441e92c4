package mocks

import (
	"context"

	"team-pdca/internal/model"
	"team-pdca/internal/service"

	"github.com/stretchr/testify/mock"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserStore) List(ctx context.Context) ([]service.UserRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UserRecord), args.Error(1)
}

func (m *UserStore) Get(ctx context.Context, userID int) (*service.UserRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserRecord), args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, userID int, upd model.UserUpdate) error {
	return m.Called(ctx, userID, upd).Error(0)
}

func (m *UserStore) Delete(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *UserStore) Stats(ctx context.Context) (*model.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminStats), args.Error(1)
}
