package model

import "time"

const (
	RoleMember  = "member"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

const (
	PlanDaily   = "daily"
	PlanWeekly  = "weekly"
	PlanMonthly = "monthly"
)

const (
	WorkOffice = "office"
	WorkField  = "field"
)

const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50" json:"username"`
	Password  string    `json:"-"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"size:100" json:"email,omitempty"`
	Role      string    `gorm:"size:20;default:member" json:"role"`
	TeamID    *int      `gorm:"index" json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Team struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description string    `json:"description"`
	ManagerID   *int      `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Plan struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	UserID          int       `gorm:"index:idx_plans_user_date" json:"user_id"`
	Type            string    `gorm:"size:20" json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	PlanDate        string    `gorm:"type:date;index:idx_plans_user_date;index" json:"plan_date"`
	StartTime       *string   `gorm:"size:5" json:"start_time"`
	EndTime         *string   `gorm:"size:5" json:"end_time"`
	ActualStartTime *string   `gorm:"size:5" json:"actual_start_time"`
	ActualEndTime   *string   `gorm:"size:5" json:"actual_end_time"`
	WorkType        string    `gorm:"size:20;default:office" json:"work_type"`
	Location        string    `json:"location,omitempty"`
	Status          string    `gorm:"size:20;default:planned" json:"status"`
	IsRecurring     bool      `gorm:"default:false" json:"is_recurring"`
	ParentPlanID    *int      `json:"parent_plan_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PdcaRecord struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	PlanID        int       `gorm:"uniqueIndex" json:"plan_id"`
	DoContent     string    `json:"do_content"`
	CheckContent  string    `json:"check_content"`
	ActionContent string    `json:"action_content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string       { return "users" }
func (Team) TableName() string       { return "teams" }
func (Plan) TableName() string       { return "plans" }
func (PdcaRecord) TableName() string { return "pdca_records" }

func ValidRole(r string) bool {
	return r == RoleMember || r == RoleManager || r == RoleAdmin
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
