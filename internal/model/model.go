package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type UserProfile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	TeamID   *int   `json:"team_id"`
	TeamName string `json:"team_name,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	TeamID   *int   `json:"team_id"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"omitempty,oneof=member manager admin"`
	TeamID   *int   `json:"team_id"`
}

// UserUpdate is the full set of fields an admin may change.
// Pointer fields distinguish "leave unchanged" from "set to zero".
type UserUpdate struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role" binding:"omitempty,oneof=member manager admin"`
	TeamID *int    `json:"team_id"`
}

// ProfileUpdate is the self-service subset: never role or team.
type ProfileUpdate struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ManagerID   *int   `json:"manager_id"`
}

type TeamSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TeamDetail struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	MemberCount int    `json:"member_count"`
}

type CreatePlanRequest struct {
	Type            string  `json:"type" binding:"required,oneof=daily weekly monthly"`
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	PlanDate        string  `json:"plan_date" binding:"required,datetime=2006-01-02"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	ActualStartTime *string `json:"actual_start_time"`
	ActualEndTime   *string `json:"actual_end_time"`
	WorkType        string  `json:"work_type" binding:"omitempty,oneof=office field"`
	Location        string  `json:"location"`
	Status          string  `json:"status" binding:"omitempty,oneof=planned in_progress completed cancelled"`
	IsRecurring     bool    `json:"is_recurring"`
	ParentPlanID    *int    `json:"parent_plan_id"`
}

// PlanUpdate lists every column a plan owner may touch. Anything
// outside this struct is dropped at the JSON boundary, so a request
// body can never smuggle in an arbitrary column (user_id and type are
// deliberately absent).
type PlanUpdate struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	PlanDate        *string `json:"plan_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	ActualStartTime *string `json:"actual_start_time"`
	ActualEndTime   *string `json:"actual_end_time"`
	WorkType        *string `json:"work_type" binding:"omitempty,oneof=office field"`
	Location        *string `json:"location"`
	Status          *string `json:"status" binding:"omitempty,oneof=planned in_progress completed cancelled"`
}

type CopyPlanRequest struct {
	TargetDates []string `json:"target_dates" binding:"required,min=1,dive,datetime=2006-01-02"`
}

type PdcaUpsert struct {
	DoContent     string `json:"do_content"`
	CheckContent  string `json:"check_content"`
	ActionContent string `json:"action_content"`
}

type PlanDetail struct {
	Plan
	UserName string      `json:"user_name"`
	Pdca     *PdcaRecord `json:"pdca,omitempty"`
}

type TeamMember struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type AdminStats struct {
	TotalUsers  int64 `json:"total_users"`
	TotalTeams  int64 `json:"total_teams"`
	TotalPlans  int64 `json:"total_plans"`
	ActiveUsers int64 `json:"active_users"`
}

type WeeklyReport struct {
	ThisWeek        []PlanDetail `json:"this_week"`
	NextWeek        []Plan       `json:"next_week"`
	MonthlyMajor    []Plan       `json:"monthly_major"`
	WeeklyMajor     []Plan       `json:"weekly_major"`
	NextWeeklyMajor []Plan       `json:"next_weekly_major"`
	DateRange       ReportRange  `json:"date_range"`
}

type ReportRange struct {
	ThisWeekStart string `json:"this_week_start"`
	ThisWeekEnd   string `json:"this_week_end"`
	NextWeekStart string `json:"next_week_start"`
	NextWeekEnd   string `json:"next_week_end"`
}
