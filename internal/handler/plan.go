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

type PlanStore interface {
	Create(ctx context.Context, ownerID int, req model.CreatePlanRequest) (*model.Plan, error)
	Get(ctx context.Context, planID int) (*service.PlanWithOwner, error)
	List(ctx context.Context, f service.ListFilter) ([]model.PlanDetail, error)
	Update(ctx context.Context, planID, ownerID int, upd model.PlanUpdate) error
	Delete(ctx context.Context, planID, ownerID int) error
	Copy(ctx context.Context, planID, ownerID int, targetDates []string) (int, error)
	UpsertPdca(ctx context.Context, planID int, upd model.PdcaUpsert) (*model.PdcaRecord, bool, error)
	GetPdca(ctx context.Context, planID int) (*model.PdcaRecord, error)
}

type ReportStore interface {
	Weekly(ctx context.Context, userID int, date string) (*model.WeeklyReport, error)
}

type PlanHandler struct {
	plans   PlanStore
	reports ReportStore
	policy  *policy.Policy
}

func NewPlanHandler(plans PlanStore, reports ReportStore, pol *policy.Policy) *PlanHandler {
	return &PlanHandler{plans: plans, reports: reports, policy: pol}
}

// GET /api/plans?user_id=&date=&type=
//
// Non-admins always get their own plans back: a requested user_id is
// overridden, and the owner id actually used is echoed in the
// response so clients can see the narrowing.
func (h *PlanHandler) List(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	var requested *int
	if raw := c.Query("user_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		requested = &n
	}
	owner := h.policy.EffectivePlanOwner(id, requested)

	plans, err := h.plans.List(c.Request.Context(), service.ListFilter{
		OwnerID:  owner,
		Date:     c.Query("date"),
		PlanType: c.Query("type"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "owner_id": owner, "plans": plans})
}

// GET /api/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	p, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.policy.CanReadPlan(id, p.Owner); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": p.Detail})
}

// POST /api/plans
func (h *PlanHandler) Create(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan"})
		return
	}
	p, err := h.plans.Create(c.Request.Context(), id.UserID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("plan.created", "plan_id", p.ID, "uid", id.UserID, "type", p.Type)
	c.JSON(http.StatusCreated, gin.H{"success": true, "plan": p})
}

// PUT /api/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	p, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.policy.CanWritePlan(id, p.Owner); err != nil {
		respondErr(c, err)
		return
	}

	var upd model.PlanUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan"})
		return
	}
	if err := h.plans.Update(c.Request.Context(), planID, id.UserID, upd); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	p, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.policy.CanWritePlan(id, p.Owner); err != nil {
		respondErr(c, err)
		return
	}
	if err := h.plans.Delete(c.Request.Context(), planID, id.UserID); err != nil {
		respondErr(c, err)
		return
	}
	logger.Info("plan.deleted", "plan_id", planID, "uid", id.UserID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/plans/:id/copy
func (h *PlanHandler) Copy(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	p, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.policy.CanWritePlan(id, p.Owner); err != nil {
		respondErr(c, err)
		return
	}

	var req model.CopyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_dates is required"})
		return
	}
	n, err := h.plans.Copy(c.Request.Context(), planID, id.UserID, req.TargetDates)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "copied": n})
}

// POST /api/plans/:id/pdca
func (h *PlanHandler) SavePdca(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	p, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.policy.CanWritePdca(id, p.Owner); err != nil {
		respondErr(c, err)
		return
	}

	var upd model.PdcaUpsert
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pdca"})
		return
	}
	rec, created, err := h.plans.UpsertPdca(c.Request.Context(), planID, upd)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "record": rec})
}

// GET /api/plans/:id/pdca
func (h *PlanHandler) GetPdca(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	p, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.policy.CanReadPdca(id, p.Owner); err != nil {
		respondErr(c, err)
		return
	}
	rec, err := h.plans.GetPdca(c.Request.Context(), planID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "record": rec})
}

// GET /api/plans/report/weekly?date=YYYY-MM-DD
//
// Always self-scoped, whatever the caller's role.
func (h *PlanHandler) WeeklyReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required"})
		return
	}
	id, _ := middleware.IdentityFrom(c)

	report, err := h.reports.Weekly(c.Request.Context(), id.UserID, date)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}
