package service

import (
	"context"
	"fmt"
	"time"

	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Plans without any start time sort to the end of the day; a recorded
// actual start stands in for a missing scheduled one.
const startTimeOrder = `p.plan_date ASC, CASE
	WHEN p.start_time IS NULL AND p.actual_start_time IS NOT NULL
	THEN p.actual_start_time
	ELSE COALESCE(p.start_time, '23:59')
END ASC`

type ReportService struct{ db *gorm.DB }

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{db: db} }

// WeekWindow returns the Monday and Sunday of the week containing the
// given date.
func WeekWindow(date string) (monday, sunday time.Time, err error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad date %q", policy.ErrValidation, date)
	}
	offset := int(time.Monday - d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	monday = d.AddDate(0, 0, offset)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday, nil
}

// Weekly builds the weekly report data. Reports are always scoped to
// the requesting user regardless of role.
func (s *ReportService) Weekly(ctx context.Context, userID int, date string) (*model.WeeklyReport, error) {
	monday, sunday, err := WeekWindow(date)
	if err != nil {
		return nil, err
	}
	nextMonday := monday.AddDate(0, 0, 7)
	nextSunday := sunday.AddDate(0, 0, 7)

	r := &model.WeeklyReport{DateRange: model.ReportRange{
		ThisWeekStart: monday.Format(dateLayout),
		ThisWeekEnd:   sunday.Format(dateLayout),
		NextWeekStart: nextMonday.Format(dateLayout),
		NextWeekEnd:   nextSunday.Format(dateLayout),
	}}
	db := s.db.WithContext(ctx)

	// This week's dailies, with PDCA reflections attached.
	err = db.Table("plans p").
		Select("p.*, u.name as user_name").
		Joins("JOIN users u ON p.user_id = u.id").
		Where("p.user_id = ? AND p.plan_date BETWEEN ? AND ? AND p.type = ?",
			userID, r.DateRange.ThisWeekStart, r.DateRange.ThisWeekEnd, model.PlanDaily).
		Order(startTimeOrder).
		Scan(&r.ThisWeek).Error
	if err != nil {
		return nil, fmt.Errorf("this week plans: %w", err)
	}
	for i := range r.ThisWeek {
		var rec model.PdcaRecord
		if err := db.Where("plan_id = ?", r.ThisWeek[i].ID).First(&rec).Error; err == nil {
			r.ThisWeek[i].Pdca = &rec
		}
	}

	// Next week's dailies, cancelled ones dropped.
	err = db.Table("plans p").Select("p.*").
		Where("p.user_id = ? AND p.plan_date BETWEEN ? AND ? AND p.type = ? AND p.status != ?",
			userID, r.DateRange.NextWeekStart, r.DateRange.NextWeekEnd, model.PlanDaily, model.StatusCancelled).
		Order(startTimeOrder).
		Scan(&r.NextWeek).Error
	if err != nil {
		return nil, fmt.Errorf("next week plans: %w", err)
	}

	// The requested date's month, monthly-type plans.
	month := date[:7]
	err = db.Model(&model.Plan{}).
		Where("user_id = ? AND type = ? AND DATE_FORMAT(plan_date, '%Y-%m') = ? AND status != ?",
			userID, model.PlanMonthly, month, model.StatusCancelled).
		Order("plan_date ASC").
		Find(&r.MonthlyMajor).Error
	if err != nil {
		return nil, fmt.Errorf("monthly plans: %w", err)
	}

	weeklyBetween := func(dst *[]model.Plan, start, end string) error {
		return db.Model(&model.Plan{}).
			Where("user_id = ? AND type = ? AND plan_date BETWEEN ? AND ? AND status != ?",
				userID, model.PlanWeekly, start, end, model.StatusCancelled).
			Order("plan_date ASC").
			Find(dst).Error
	}
	if err := weeklyBetween(&r.WeeklyMajor, r.DateRange.ThisWeekStart, r.DateRange.ThisWeekEnd); err != nil {
		return nil, fmt.Errorf("weekly plans: %w", err)
	}
	if err := weeklyBetween(&r.NextWeeklyMajor, r.DateRange.NextWeekStart, r.DateRange.NextWeekEnd); err != nil {
		return nil, fmt.Errorf("next weekly plans: %w", err)
	}

	if r.ThisWeek == nil {
		r.ThisWeek = []model.PlanDetail{}
	}
	if r.NextWeek == nil {
		r.NextWeek = []model.Plan{}
	}
	return r, nil
}
