package service

import (
	"context"
	"errors"
	"fmt"

	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.UserProfile, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrUnauthenticated
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, policy.ErrUnauthenticated
	}
	return s.profile(ctx, &u)
}

func (s *AuthService) Me(ctx context.Context, userID int) (*model.UserProfile, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return s.profile(ctx, &u)
}

func (s *AuthService) profile(ctx context.Context, u *model.User) (*model.UserProfile, error) {
	p := &model.UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		TeamID:   u.TeamID,
	}
	if u.TeamID != nil {
		var t model.Team
		if err := s.db.WithContext(ctx).First(&t, *u.TeamID).Error; err == nil {
			p.TeamName = t.Name
		}
	}
	return p, nil
}

// UpdateProfile is the self-service path: name and email only, always
// scoped to the caller's own row.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, upd model.ProfileUpdate) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"name": upd.Name, "email": upd.Email})
	if res.Error != nil {
		return fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, change model.PasswordChange) error {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.ErrNotFound
		}
		return fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(change.CurrentPassword)) != nil {
		return fmt.Errorf("%w: current password does not match", policy.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(change.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&u).Update("password", string(hashed)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
