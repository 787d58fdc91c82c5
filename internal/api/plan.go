package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

// PlanHandler exposes nutrition plan lifecycle, targets and aggregation.
type PlanHandler struct {
	plans service.IPlanService
}

func NewPlanHandler(plans service.IPlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// CreatePlan creates an active plan for a patient. Any previous active plan
// for that patient is completed in the same transaction.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	nutritionistID, ok := contextUUID(c, "user_id")
	if !ok {
		return
	}

	var req types.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.plans.CreatePlan(c.Request.Context(), req.PatientID, nutritionistID, req.Name, req.Targets)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	patientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	plans, err := h.plans.ListPlans(c.Request.Context(), patientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) UpdateTargets(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdatePlanTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.plans.UpdateTargets(c.Request.Context(), id, req.Targets)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) ArchivePlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.plans.ArchivePlan(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan archived"})
}

// DailyTotals returns the plan's aggregated primary-option macros.
func (h *PlanHandler) DailyTotals(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	totals, err := h.plans.DailyTotals(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Adherence compares the plan's realized totals against its targets.
func (h *PlanHandler) Adherence(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.plans.AdherenceRatio(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
