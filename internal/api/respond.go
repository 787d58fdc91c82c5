package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/consultafit/nutriplan/backend/internal/service"
)

// handleServiceError translates service sentinel errors into HTTP responses.
// Unknown errors become a 500 without leaking internals.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFoodNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, service.ErrMealFoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidGroup),
		errors.Is(err, service.ErrInvalidAnthropometric),
		errors.Is(err, service.ErrInvalidTargets),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidFoodSource),
		errors.Is(err, service.ErrInvalidMetric),
		errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGlobalFoodReadOnly),
		errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pathID parses a uuid path parameter and writes a 400 on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// contextUUID reads a uuid previously stored by the auth middleware.
func contextUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	v, ok := c.Get(key)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}
