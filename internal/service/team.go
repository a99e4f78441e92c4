package service

import (
	"context"
	"errors"
	"fmt"

	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"gorm.io/gorm"
)

type TeamService struct{ db *gorm.DB }

func NewTeamService(db *gorm.DB) *TeamService { return &TeamService{db: db} }

// ListReduced is the public projection: id, name, description only.
func (s *TeamService) ListReduced(ctx context.Context) ([]model.TeamSummary, error) {
	var teams []model.TeamSummary
	err := s.db.WithContext(ctx).Model(&model.Team{}).
		Select("id, name, description").
		Order("name").
		Scan(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []model.TeamSummary{}
	}
	return teams, nil
}

// ListFull includes member counts, for authenticated callers.
func (s *TeamService) ListFull(ctx context.Context) ([]model.TeamDetail, error) {
	var teams []model.TeamDetail
	err := s.db.WithContext(ctx).Table("teams t").
		Select("t.id, t.name, t.description, t.created_at, COUNT(u.id) as member_count").
		Joins("LEFT JOIN users u ON t.id = u.team_id").
		Group("t.id, t.name, t.description, t.created_at").
		Order("t.name").
		Scan(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []model.TeamDetail{}
	}
	return teams, nil
}

func (s *TeamService) Create(ctx context.Context, req model.CreateTeamRequest) (*model.Team, error) {
	if err := s.checkNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}
	t := model.Team{Name: req.Name, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return &t, nil
}

func (s *TeamService) Update(ctx context.Context, teamID int, req model.UpdateTeamRequest) error {
	if err := s.checkNameFree(ctx, req.Name, teamID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&model.Team{}).Where("id = ?", teamID).
		Updates(map[string]interface{}{
			"name":        req.Name,
			"description": req.Description,
			"manager_id":  req.ManagerID,
		})
	if res.Error != nil {
		return fmt.Errorf("update team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

// Delete refuses while any user still references the team.
func (s *TeamService) Delete(ctx context.Context, teamID int) error {
	var members int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("team_id = ?", teamID).Count(&members).Error; err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if members > 0 {
		return fmt.Errorf("%w: team still has members", policy.ErrConflict)
	}
	res := s.db.WithContext(ctx).Delete(&model.Team{}, teamID)
	if res.Error != nil {
		return fmt.Errorf("delete team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (s *TeamService) Members(ctx context.Context, teamID int) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Select("id, username, name, email, role, created_at").
		Where("team_id = ?", teamID).
		Order("role DESC, name").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []model.TeamMember{}
	}
	return members, nil
}

func (s *TeamService) checkNameFree(ctx context.Context, name string, excludeID int) error {
	var existing model.Team
	q := s.db.WithContext(ctx).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	err := q.First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: team name already exists", policy.ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check team name: %w", err)
	}
	return nil
}
