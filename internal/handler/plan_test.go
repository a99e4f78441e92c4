package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"team-pdca/internal/handler"
	"team-pdca/internal/middleware"
	"team-pdca/internal/mocks"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"
	"team-pdca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type noopResolver struct{}

func (noopResolver) TeamIDOf(context.Context, int) (*int, error) { return nil, policy.ErrNotFound }

func team(id int) *int { return &id }

func testCtx(t *testing.T, method, path, body string, id *policy.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx.Request = req
	if id != nil {
		middleware.SetIdentity(ctx, *id)
	}
	return ctx, w
}

// Plan owned by user 1 on team 1, used throughout.
func aPlan() *service.PlanWithOwner {
	return &service.PlanWithOwner{
		Detail: model.PlanDetail{
			Plan:     model.Plan{ID: 10, UserID: 1, Type: model.PlanDaily, Title: "standup", PlanDate: "2025-08-18"},
			UserName: "Alice",
		},
		Owner: policy.PlanRef{OwnerID: 1, OwnerTeamID: team(1)},
	}
}

func TestGetPlanVisibility(t *testing.T) {
	tests := []struct {
		name string
		id   policy.Identity
		want int
	}{
		{"owner", policy.Identity{UserID: 1, Role: policy.Member, TeamID: team(1)}, http.StatusOK},
		{"member other team", policy.Identity{UserID: 2, Role: policy.Member, TeamID: team(2)}, http.StatusForbidden},
		{"member same team", policy.Identity{UserID: 3, Role: policy.Member, TeamID: team(1)}, http.StatusForbidden},
		{"manager same team", policy.Identity{UserID: 4, Role: policy.Manager, TeamID: team(1)}, http.StatusOK},
		{"manager other team", policy.Identity{UserID: 5, Role: policy.Manager, TeamID: team(2)}, http.StatusForbidden},
		{"admin", policy.Identity{UserID: 6, Role: policy.Admin}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plans := new(mocks.PlanStore)
			plans.On("Get", mock.Anything, 10).Return(aPlan(), nil)
			h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

			ctx, w := testCtx(t, http.MethodGet, "/api/plans/10", "", &tc.id)
			ctx.Params = gin.Params{{Key: "id", Value: "10"}}
			h.Get(ctx)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestUpdatePlanOwnerOnly(t *testing.T) {
	// Read access never implies write access: same-team manager and
	// admin both bounce here.
	tests := []struct {
		name string
		id   policy.Identity
		want int
	}{
		{"owner", policy.Identity{UserID: 1, Role: policy.Member, TeamID: team(1)}, http.StatusOK},
		{"manager same team", policy.Identity{UserID: 4, Role: policy.Manager, TeamID: team(1)}, http.StatusForbidden},
		{"admin", policy.Identity{UserID: 6, Role: policy.Admin}, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plans := new(mocks.PlanStore)
			plans.On("Get", mock.Anything, 10).Return(aPlan(), nil)
			if tc.want == http.StatusOK {
				plans.On("Update", mock.Anything, 10, tc.id.UserID, mock.AnythingOfType("model.PlanUpdate")).Return(nil)
			}
			h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

			ctx, w := testCtx(t, http.MethodPut, "/api/plans/10", `{"title":"revised"}`, &tc.id)
			ctx.Params = gin.Params{{Key: "id", Value: "10"}}
			h.Update(ctx)

			assert.Equal(t, tc.want, w.Code)
			plans.AssertExpectations(t)
		})
	}
}

func TestListPlansForcesOwnScope(t *testing.T) {
	// A member asking for someone else's plans gets their own, and
	// the response says so.
	plans := new(mocks.PlanStore)
	plans.On("List", mock.Anything, service.ListFilter{OwnerID: 7}).
		Return([]model.PlanDetail{}, nil)
	h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

	id := policy.Identity{UserID: 7, Role: policy.Member, TeamID: team(1)}
	ctx, w := testCtx(t, http.MethodGet, "/api/plans?user_id=42", "", &id)
	h.List(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		OwnerID int `json:"owner_id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.OwnerID)
	plans.AssertExpectations(t)
}

func TestListPlansAdminKeepsRequestedScope(t *testing.T) {
	plans := new(mocks.PlanStore)
	plans.On("List", mock.Anything, service.ListFilter{OwnerID: 42}).
		Return([]model.PlanDetail{}, nil)
	h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

	id := policy.Identity{UserID: 6, Role: policy.Admin}
	ctx, w := testCtx(t, http.MethodGet, "/api/plans?user_id=42", "", &id)
	h.List(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	plans.AssertExpectations(t)
}

func TestSavePdcaOwnerOnly(t *testing.T) {
	owner := policy.Identity{UserID: 1, Role: policy.Member, TeamID: team(1)}
	manager := policy.Identity{UserID: 4, Role: policy.Manager, TeamID: team(1)}

	t.Run("owner first save creates", func(t *testing.T) {
		plans := new(mocks.PlanStore)
		plans.On("Get", mock.Anything, 10).Return(aPlan(), nil)
		plans.On("UpsertPdca", mock.Anything, 10, mock.AnythingOfType("model.PdcaUpsert")).
			Return(&model.PdcaRecord{ID: 1, PlanID: 10}, true, nil)
		h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

		ctx, w := testCtx(t, http.MethodPost, "/api/plans/10/pdca", `{"do_content":"done"}`, &owner)
		ctx.Params = gin.Params{{Key: "id", Value: "10"}}
		h.SavePdca(ctx)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("manager cannot write", func(t *testing.T) {
		plans := new(mocks.PlanStore)
		plans.On("Get", mock.Anything, 10).Return(aPlan(), nil)
		h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

		ctx, w := testCtx(t, http.MethodPost, "/api/plans/10/pdca", `{"do_content":"done"}`, &manager)
		ctx.Params = gin.Params{{Key: "id", Value: "10"}}
		h.SavePdca(ctx)

		assert.Equal(t, http.StatusForbidden, w.Code)
		plans.AssertNotCalled(t, "UpsertPdca", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetPdcaManagerAnyTeam(t *testing.T) {
	// Managers read PDCA records without a team match, unlike plan
	// reads.
	otherTeamMgr := policy.Identity{UserID: 5, Role: policy.Manager, TeamID: team(2)}

	plans := new(mocks.PlanStore)
	plans.On("Get", mock.Anything, 10).Return(aPlan(), nil)
	plans.On("GetPdca", mock.Anything, 10).Return(&model.PdcaRecord{ID: 1, PlanID: 10}, nil)
	h := handler.NewPlanHandler(plans, nil, policy.New(noopResolver{}))

	ctx, w := testCtx(t, http.MethodGet, "/api/plans/10/pdca", "", &otherTeamMgr)
	ctx.Params = gin.Params{{Key: "id", Value: "10"}}
	h.GetPdca(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWeeklyReportSelfScoped(t *testing.T) {
	reports := new(mocks.ReportStore)
	reports.On("Weekly", mock.Anything, 6, "2025-08-18").
		Return(&model.WeeklyReport{}, nil)
	h := handler.NewPlanHandler(new(mocks.PlanStore), reports, policy.New(noopResolver{}))

	// Even an admin only ever gets their own report.
	id := policy.Identity{UserID: 6, Role: policy.Admin}
	ctx, w := testCtx(t, http.MethodGet, "/api/plans/report/weekly?date=2025-08-18", "", &id)
	h.WeeklyReport(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	reports.AssertExpectations(t)
}

func TestWeeklyReportRequiresDate(t *testing.T) {
	h := handler.NewPlanHandler(new(mocks.PlanStore), new(mocks.ReportStore), policy.New(noopResolver{}))
	id := policy.Identity{UserID: 1, Role: policy.Member}
	ctx, w := testCtx(t, http.MethodGet, "/api/plans/report/weekly", "", &id)
	h.WeeklyReport(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
