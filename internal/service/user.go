package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

// UserRecord is the admin listing row: user plus resolved team name.
type UserRecord struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	TeamID    *int      `json:"team_id"`
	TeamName  string    `json:"team_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Register is the open self-registration path. Role is always forced
// to member. The supplied team_id is stored without an existence
// check; this mirrors the behavior the product shipped with and is
// accepted debt, not an oversight.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return s.insert(ctx, req.Username, req.Password, req.Name, req.Email, model.RoleMember, req.TeamID)
}

// Create is the admin path: role and team are assignable.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	return s.insert(ctx, req.Username, req.Password, req.Name, req.Email, role, req.TeamID)
}

func (s *UserService) insert(ctx context.Context, username, password, name, email, role string, teamID *int) (*model.User, error) {
	var existing model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: username already taken", policy.ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		Username: username,
		Password: string(hashed),
		Name:     name,
		Email:    email,
		Role:     role,
		TeamID:   teamID,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context) ([]UserRecord, error) {
	var rows []UserRecord
	err := s.db.WithContext(ctx).Table("users u").
		Select("u.id, u.username, u.name, u.email, u.role, u.team_id, t.name as team_name, u.created_at, u.updated_at").
		Joins("LEFT JOIN teams t ON u.team_id = t.id").
		Order("u.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if rows == nil {
		rows = []UserRecord{}
	}
	return rows, nil
}

func (s *UserService) Get(ctx context.Context, userID int) (*UserRecord, error) {
	var row UserRecord
	err := s.db.WithContext(ctx).Table("users u").
		Select("u.id, u.username, u.name, u.email, u.role, u.team_id, t.name as team_name, u.created_at, u.updated_at").
		Joins("LEFT JOIN teams t ON u.team_id = t.id").
		Where("u.id = ?", userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &row, nil
}

func (s *UserService) Update(ctx context.Context, userID int, upd model.UserUpdate) error {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.Role != nil {
		if !model.ValidRole(*upd.Role) {
			return fmt.Errorf("%w: invalid role", policy.ErrValidation)
		}
		fields["role"] = *upd.Role
	}
	if upd.TeamID != nil {
		fields["team_id"] = *upd.TeamID
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no updatable fields", policy.ErrValidation)
	}

	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, userID int) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, userID)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

// TeamIDOf implements policy.TeamResolver.
func (s *UserService) TeamIDOf(ctx context.Context, userID int) (*int, error) {
	var u model.User
	err := s.db.WithContext(ctx).Select("team_id").First(&u, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("query team of user %d: %w", userID, err)
	}
	return u.TeamID, nil
}

// Stats aggregates the admin dashboard counters. Active users are
// those with at least one plan created in the last 30 days.
func (s *UserService) Stats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&model.Team{}).Count(&stats.TotalTeams).Error; err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}
	if err := db.Model(&model.Plan{}).Count(&stats.TotalPlans).Error; err != nil {
		return nil, fmt.Errorf("count plans: %w", err)
	}
	cutoff := time.Now().AddDate(0, 0, -30)
	err := db.Model(&model.Plan{}).
		Where("created_at >= ?", cutoff).
		Distinct("user_id").
		Count(&stats.ActiveUsers).Error
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	return &stats, nil
}
