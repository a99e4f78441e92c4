package service

import (
	"context"
	"errors"
	"fmt"

	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"gorm.io/gorm"
)

var (
	defaultStartTime = "09:00"
	defaultEndTime   = "17:00"
)

type PlanService struct{ db *gorm.DB }

func NewPlanService(db *gorm.DB) *PlanService { return &PlanService{db: db} }

// PlanWithOwner bundles a plan with the owner facts access decisions
// need, so handlers fetch once and decide once.
type PlanWithOwner struct {
	Detail model.PlanDetail
	Owner  policy.PlanRef
}

type ListFilter struct {
	OwnerID  int
	Date     string // YYYY-MM-DD, or YYYY-MM for a whole month
	PlanType string
}

func (s *PlanService) Create(ctx context.Context, ownerID int, req model.CreatePlanRequest) (*model.Plan, error) {
	p := model.Plan{
		UserID:          ownerID,
		Type:            req.Type,
		Title:           req.Title,
		Description:     req.Description,
		PlanDate:        req.PlanDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		ActualStartTime: req.ActualStartTime,
		ActualEndTime:   req.ActualEndTime,
		WorkType:        req.WorkType,
		Location:        req.Location,
		Status:          req.Status,
		IsRecurring:     req.IsRecurring,
		ParentPlanID:    req.ParentPlanID,
	}
	if p.StartTime == nil {
		p.StartTime = &defaultStartTime
	}
	if p.EndTime == nil {
		p.EndTime = &defaultEndTime
	}
	if p.WorkType == "" {
		p.WorkType = model.WorkOffice
	}
	if p.Status == "" {
		p.Status = model.StatusPlanned
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return &p, nil
}

func (s *PlanService) Get(ctx context.Context, planID int) (*PlanWithOwner, error) {
	var p model.Plan
	if err := s.db.WithContext(ctx).First(&p, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("query plan: %w", err)
	}

	var owner model.User
	if err := s.db.WithContext(ctx).Select("id, name, team_id").First(&owner, p.UserID).Error; err != nil {
		return nil, fmt.Errorf("query plan owner: %w", err)
	}

	detail := model.PlanDetail{Plan: p, UserName: owner.Name}
	var rec model.PdcaRecord
	err := s.db.WithContext(ctx).Where("plan_id = ?", planID).First(&rec).Error
	if err == nil {
		detail.Pdca = &rec
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query pdca: %w", err)
	}

	return &PlanWithOwner{
		Detail: detail,
		Owner:  policy.PlanRef{OwnerID: owner.ID, OwnerTeamID: owner.TeamID},
	}, nil
}

// List returns plans for one owner; the caller resolves the effective
// owner through the policy before calling.
func (s *PlanService) List(ctx context.Context, f ListFilter) ([]model.PlanDetail, error) {
	q := s.db.WithContext(ctx).Table("plans p").
		Select("p.*, u.name as user_name").
		Joins("JOIN users u ON p.user_id = u.id").
		Where("p.user_id = ?", f.OwnerID)

	if f.Date != "" {
		if len(f.Date) == 7 { // YYYY-MM
			q = q.Where("DATE_FORMAT(p.plan_date, '%Y-%m') = ?", f.Date)
		} else {
			q = q.Where("p.plan_date = ?", f.Date)
		}
	}
	if f.PlanType != "" {
		q = q.Where("p.type = ?", f.PlanType)
	}

	var plans []model.PlanDetail
	if err := q.Order("p.plan_date DESC, p.start_time ASC").Scan(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if plans == nil {
		plans = []model.PlanDetail{}
	}
	return plans, nil
}

// Update writes the allow-listed fields, scoped to the owning user's
// row so ownership can never change hands.
func (s *PlanService) Update(ctx context.Context, planID, ownerID int, upd model.PlanUpdate) error {
	fields := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	set("title", upd.Title)
	set("description", upd.Description)
	set("plan_date", upd.PlanDate)
	set("start_time", upd.StartTime)
	set("end_time", upd.EndTime)
	set("actual_start_time", upd.ActualStartTime)
	set("actual_end_time", upd.ActualEndTime)
	set("work_type", upd.WorkType)
	set("location", upd.Location)
	if upd.Status != nil {
		if !model.ValidStatus(*upd.Status) {
			return fmt.Errorf("%w: unknown status %q", policy.ErrValidation, *upd.Status)
		}
		fields["status"] = *upd.Status
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no updatable fields", policy.ErrValidation)
	}

	res := s.db.WithContext(ctx).Model(&model.Plan{}).
		Where("id = ? AND user_id = ?", planID, ownerID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update plan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (s *PlanService) Delete(ctx context.Context, planID, ownerID int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", planID, ownerID).Delete(&model.Plan{})
		if res.Error != nil {
			return fmt.Errorf("delete plan: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return policy.ErrNotFound
		}
		if err := tx.Where("plan_id = ?", planID).Delete(&model.PdcaRecord{}).Error; err != nil {
			return fmt.Errorf("delete pdca: %w", err)
		}
		return nil
	})
}

// Copy clones a plan onto each target date. Copies carry the schedule
// but not recorded execution or status, and point back to the source
// through parent_plan_id.
func (s *PlanService) Copy(ctx context.Context, planID, ownerID int, targetDates []string) (int, error) {
	var src model.Plan
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", planID, ownerID).First(&src).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, policy.ErrNotFound
		}
		return 0, fmt.Errorf("query source plan: %w", err)
	}

	copies := make([]model.Plan, 0, len(targetDates))
	for _, date := range targetDates {
		copies = append(copies, model.Plan{
			UserID:       src.UserID,
			Type:         src.Type,
			Title:        src.Title,
			Description:  src.Description,
			PlanDate:     date,
			StartTime:    src.StartTime,
			EndTime:      src.EndTime,
			WorkType:     src.WorkType,
			Location:     src.Location,
			Status:       model.StatusPlanned,
			ParentPlanID: &src.ID,
		})
	}
	if err := s.db.WithContext(ctx).Create(&copies).Error; err != nil {
		return 0, fmt.Errorf("insert copies: %w", err)
	}
	return len(copies), nil
}

// UpsertPdca keeps the one-record-per-plan invariant: the existing
// row is updated in place, a second insert never happens.
func (s *PlanService) UpsertPdca(ctx context.Context, planID int, upd model.PdcaUpsert) (*model.PdcaRecord, bool, error) {
	var existing model.PdcaRecord
	err := s.db.WithContext(ctx).Where("plan_id = ?", planID).First(&existing).Error
	if err == nil {
		uerr := s.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"do_content":     upd.DoContent,
			"check_content":  upd.CheckContent,
			"action_content": upd.ActionContent,
		}).Error
		if uerr != nil {
			return nil, false, fmt.Errorf("update pdca: %w", uerr)
		}
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("query pdca: %w", err)
	}

	rec := model.PdcaRecord{
		PlanID:        planID,
		DoContent:     upd.DoContent,
		CheckContent:  upd.CheckContent,
		ActionContent: upd.ActionContent,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, false, fmt.Errorf("insert pdca: %w", err)
	}
	return &rec, true, nil
}

func (s *PlanService) GetPdca(ctx context.Context, planID int) (*model.PdcaRecord, error) {
	var rec model.PdcaRecord
	err := s.db.WithContext(ctx).Where("plan_id = ?", planID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("query pdca: %w", err)
	}
	return &rec, nil
}
