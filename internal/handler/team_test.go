package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"team-pdca/internal/handler"
	"team-pdca/internal/middleware"
	"team-pdca/internal/mocks"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTeamListProjectionByCredential(t *testing.T) {
	tests := []struct {
		name string
		cred policy.Credential
		full bool
	}{
		{"no credential", policy.CredentialNone, false},
		{"invalid credential", policy.CredentialInvalid, false},
		{"valid credential", policy.CredentialValid, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			teams := new(mocks.TeamStore)
			if tc.full {
				teams.On("ListFull", mock.Anything).
					Return([]model.TeamDetail{{ID: 1, Name: "EDA", MemberCount: 3}}, nil)
			} else {
				teams.On("ListReduced", mock.Anything).
					Return([]model.TeamSummary{{ID: 1, Name: "EDA"}}, nil)
			}
			h := handler.NewTeamHandler(teams, policy.New(noopResolver{}))

			ctx, w := testCtx(t, http.MethodGet, "/api/teams", "", nil)
			middleware.SetCredential(ctx, tc.cred)
			h.List(ctx)

			assert.Equal(t, http.StatusOK, w.Code)
			if tc.full {
				assert.Contains(t, w.Body.String(), "member_count")
			} else {
				assert.NotContains(t, w.Body.String(), "member_count")
			}
			teams.AssertExpectations(t)
		})
	}
}

func TestCreateTeamAdminOnly(t *testing.T) {
	teams := new(mocks.TeamStore)
	h := handler.NewTeamHandler(teams, policy.New(noopResolver{}))

	for _, id := range []policy.Identity{
		{UserID: 2, Role: policy.Manager, TeamID: team(1)},
		{UserID: 3, Role: policy.Member, TeamID: team(1)},
	} {
		ctx, w := testCtx(t, http.MethodPost, "/api/teams", `{"name":"NEW"}`, &id)
		h.Create(ctx)
		assert.Equal(t, http.StatusForbidden, w.Code)
	}
	teams.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	admin := policy.Identity{UserID: 9, Role: policy.Admin}
	teams.On("Create", mock.Anything, model.CreateTeamRequest{Name: "NEW"}).
		Return(&model.Team{ID: 5, Name: "NEW"}, nil)
	ctx, w := testCtx(t, http.MethodPost, "/api/teams", `{"name":"NEW"}`, &admin)
	h.Create(ctx)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteTeamWithMembersConflicts(t *testing.T) {
	teams := new(mocks.TeamStore)
	teams.On("Delete", mock.Anything, 1).
		Return(fmt.Errorf("%w: team still has members", policy.ErrConflict))
	h := handler.NewTeamHandler(teams, policy.New(noopResolver{}))

	admin := policy.Identity{UserID: 9, Role: policy.Admin}
	ctx, w := testCtx(t, http.MethodDelete, "/api/teams/1", "", &admin)
	ctx.Params = gin.Params{{Key: "teamId", Value: "1"}}
	h.Delete(ctx)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteEmptyTeamSucceeds(t *testing.T) {
	teams := new(mocks.TeamStore)
	teams.On("Delete", mock.Anything, 2).Return(nil)
	h := handler.NewTeamHandler(teams, policy.New(noopResolver{}))

	admin := policy.Identity{UserID: 9, Role: policy.Admin}
	ctx, w := testCtx(t, http.MethodDelete, "/api/teams/2", "", &admin)
	ctx.Params = gin.Params{{Key: "teamId", Value: "2"}}
	h.Delete(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTeamRoster(t *testing.T) {
	teams := new(mocks.TeamStore)
	teams.On("Members", mock.Anything, 1).
		Return([]model.TeamMember{{ID: 1, Name: "Alice", Role: model.RoleMember}}, nil)
	h := handler.NewTeamHandler(teams, policy.New(noopResolver{}))

	member := policy.Identity{UserID: 1, Role: policy.Member, TeamID: team(1)}
	ctx, w := testCtx(t, http.MethodGet, "/api/teams/1/members", "", &member)
	ctx.Params = gin.Params{{Key: "teamId", Value: "1"}}
	h.Members(ctx)
	assert.Equal(t, http.StatusOK, w.Code)

	outsider := policy.Identity{UserID: 2, Role: policy.Member, TeamID: team(2)}
	ctx, w = testCtx(t, http.MethodGet, "/api/teams/1/members", "", &outsider)
	ctx.Params = gin.Params{{Key: "teamId", Value: "1"}}
	h.Members(ctx)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
