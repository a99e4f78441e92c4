package handler

import (
	"context"
	"net/http"
	"strconv"

	"team-pdca/internal/logger"
	"team-pdca/internal/middleware"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"
	"team-pdca/internal/service"

	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	List(ctx context.Context) ([]service.UserRecord, error)
	Get(ctx context.Context, userID int) (*service.UserRecord, error)
	Update(ctx context.Context, userID int, upd model.UserUpdate) error
	Delete(ctx context.Context, userID int) error
	Stats(ctx context.Context) (*model.AdminStats, error)
}

type UserHandler struct {
	users  UserStore
	policy *policy.Policy
}

func NewUserHandler(users UserStore, pol *policy.Policy) *UserHandler {
	return &UserHandler{users: users, policy: pol}
}

// POST /api/users/register (no auth)
//
// Open by design: anyone may sign up and will always come out a
// member. The requested team_id is taken as-is without checking the
// team exists.
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password and name are required"})
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("user.registered", "uid", u.ID, "username", u.Username)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
}

// GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// POST /api/users (admin)
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password and name are required"})
		return
	}
	u, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("user.created", "uid", u.ID, "role", u.Role)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	if err := h.policy.CanAccessUserRecord(c.Request.Context(), id, targetID); err != nil {
		respondErr(c, err)
		return
	}
	u, err := h.users.Get(c.Request.Context(), targetID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

// PUT /api/users/:id (admin)
func (h *UserHandler) Update(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanModifyUserRecord(id, targetID); err != nil {
		respondErr(c, err)
		return
	}

	var upd model.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.users.Update(c.Request.Context(), targetID, upd); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/users/:id (admin)
func (h *UserHandler) Delete(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)
	if err := h.policy.CanDeleteUserRecord(id, targetID); err != nil {
		respondErr(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), targetID); err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("user.deleted", "uid", targetID, "by", id.UserID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/users/admin/stats (admin)
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
