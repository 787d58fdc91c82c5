package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

// EvolutionHandler exposes anthropometric assessments and derived progress
// views: metric series, first-to-last deltas and the adherence trend.
type EvolutionHandler struct {
	evolution service.IEvolutionService
}

func NewEvolutionHandler(evolution service.IEvolutionService) *EvolutionHandler {
	return &EvolutionHandler{evolution: evolution}
}

func (h *EvolutionHandler) CreateAssessment(c *gin.Context) {
	nutritionistID, ok := contextUUID(c, "user_id")
	if !ok {
		return
	}

	var req types.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assessment, err := h.evolution.CreateAssessment(c.Request.Context(), nutritionistID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

func (h *EvolutionHandler) Series(c *gin.Context) {
	patientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	series, err := h.evolution.SeriesFor(c.Request.Context(), patientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": series})
}

// Delta reports the first-to-last change for one metric across the patient's
// assessment history.
func (h *EvolutionHandler) Delta(c *gin.Context) {
	patientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	metric := c.DefaultQuery("metric", service.MetricWeightKg)

	series, err := h.evolution.SeriesFor(c.Request.Context(), patientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	delta, err := h.evolution.Delta(metric, series)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metric": metric, "delta": delta})
}

func (h *EvolutionHandler) AdherenceTrend(c *gin.Context) {
	patientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	windowDays := 0
	if v := c.Query("window_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window_days"})
			return
		}
		windowDays = parsed
	}

	trend, err := h.evolution.AdherenceTrend(c.Request.Context(), patientID, windowDays)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend})
}
