package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

// EnergyHandler exposes the Mifflin-St Jeor calculator. The computation is
// stateless; applying a result to a plan happens through the plan targets
// endpoint.
type EnergyHandler struct{}

func NewEnergyHandler() *EnergyHandler {
	return &EnergyHandler{}
}

func (h *EnergyHandler) Compute(c *gin.Context) {
	var req types.ComputeEnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := service.ComputeEnergyTargets(service.EnergyInput{
		WeightKg:      req.WeightKg,
		HeightCm:      req.HeightCm,
		AgeYears:      req.AgeYears,
		Sex:           req.Sex,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
