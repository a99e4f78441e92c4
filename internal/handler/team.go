package handler

import (
	"context"
	"net/http"
	"strconv"

	"team-pdca/internal/logger"
	"team-pdca/internal/middleware"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"github.com/gin-gonic/gin"
)

type TeamStore interface {
	ListReduced(ctx context.Context) ([]model.TeamSummary, error)
	ListFull(ctx context.Context) ([]model.TeamDetail, error)
	Create(ctx context.Context, req model.CreateTeamRequest) (*model.Team, error)
	Update(ctx context.Context, teamID int, req model.UpdateTeamRequest) error
	Delete(ctx context.Context, teamID int) error
	Members(ctx context.Context, teamID int) ([]model.TeamMember, error)
}

type TeamHandler struct {
	teams  TeamStore
	policy *policy.Policy
}

func NewTeamHandler(teams TeamStore, pol *policy.Policy) *TeamHandler {
	return &TeamHandler{teams: teams, policy: pol}
}

// GET /api/teams (optional auth)
//
// Same endpoint for everyone, two shapes: member counts only go to
// callers whose credential actually verified.
func (h *TeamHandler) List(c *gin.Context) {
	cred := middleware.CredentialFrom(c)
	if h.policy.TeamListProjection(cred) == policy.ProjectionFull {
		teams, err := h.teams.ListFull(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "teams": teams})
		return
	}

	teams, err := h.teams.ListReduced(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "teams": teams})
}

// POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanManageTeams(id); err != nil {
		respondErr(c, err)
		return
	}
	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team name is required"})
		return
	}
	t, err := h.teams.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("team.created", "team_id", t.ID, "name", t.Name)
	c.JSON(http.StatusCreated, gin.H{"success": true, "team": t})
}

// PUT /api/teams/:teamId
func (h *TeamHandler) Update(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanManageTeams(id); err != nil {
		respondErr(c, err)
		return
	}
	var req model.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team name is required"})
		return
	}
	if err := h.teams.Update(c.Request.Context(), teamID, req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/teams/:teamId
func (h *TeamHandler) Delete(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanManageTeams(id); err != nil {
		respondErr(c, err)
		return
	}
	if err := h.teams.Delete(c.Request.Context(), teamID); err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("team.deleted", "team_id", teamID, "by", id.UserID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/teams/:teamId/members
func (h *TeamHandler) Members(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanViewTeamRoster(id, teamID); err != nil {
		respondErr(c, err)
		return
	}
	members, err := h.teams.Members(c.Request.Context(), teamID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "members": members})
}
