package mocks

import (
	"context"

	"team-pdca/internal/model"

	"github.com/stretchr/testify/mock"
)

type AuthStore struct{ mock.Mock }

func (m *AuthStore) Login(ctx context.Context, username, password string) (*model.UserProfile, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *AuthStore) Me(ctx context.Context, userID int) (*model.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *AuthStore) UpdateProfile(ctx context.Context, userID int, upd model.ProfileUpdate) error {
	return m.Called(ctx, userID, upd).Error(0)
}

func (m *AuthStore) ChangePassword(ctx context.Context, userID int, change model.PasswordChange) error {
	return m.Called(ctx, userID, change).Error(0)
}
