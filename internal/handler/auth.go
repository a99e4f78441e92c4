package handler

import (
	"context"
	"net/http"

	"team-pdca/internal/logger"
	"team-pdca/internal/middleware"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 30 * 24 * 60 * 60

type AuthStore interface {
	Login(ctx context.Context, username, password string) (*model.UserProfile, error)
	Me(ctx context.Context, userID int) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int, upd model.ProfileUpdate) error
	ChangePassword(ctx context.Context, userID int, change model.PasswordChange) error
}

type AuthHandler struct {
	auth   AuthStore
	policy *policy.Policy
	secret []byte
}

func NewAuthHandler(auth AuthStore, pol *policy.Policy, secret []byte) *AuthHandler {
	return &AuthHandler{auth: auth, policy: pol, secret: secret}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	role, err := policy.ParseRole(profile.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	token, err := middleware.IssueToken(h.secret, policy.Identity{
		UserID: profile.ID,
		Role:   role,
		TeamID: profile.TeamID,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	logger.Info("login.ok", "uid", profile.ID, "role", profile.Role)
	c.SetCookie("token", token, cookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: *profile})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	profile, err := h.auth.Me(c.Request.Context(), id.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

// GET /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valid":   true,
		"user": gin.H{
			"id":      id.UserID,
			"role":    id.Role.String(),
			"team_id": id.TeamID,
		},
	})
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanEditOwnProfile(id, id.UserID); err != nil {
		respondErr(c, err)
		return
	}
	var upd model.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.auth.UpdateProfile(c.Request.Context(), id.UserID, upd); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanEditOwnProfile(id, id.UserID); err != nil {
		respondErr(c, err)
		return
	}
	var change model.PasswordChange
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), id.UserID, change); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
