package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

// MealHandler exposes meal composition: meals within a plan, foods within a
// meal, and substitution groups.
type MealHandler struct {
	meals service.IMealService
}

func NewMealHandler(meals service.IMealService) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) AddMeal(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.meals.AddMeal(c.Request.Context(), planID, req.Name, req.Time)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) RemoveMeal(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.meals.RemoveMeal(c.Request.Context(), mealID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal removed"})
}

func (h *MealHandler) ReorderMeals(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		MealIDs []uuid.UUID `json:"meal_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.meals.ReorderMeals(c.Request.Context(), planID, req.MealIDs); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meals reordered"})
}

// AddFood adds a library or inline food to a meal. Macro totals are scaled by
// quantity when the row is written.
func (h *MealHandler) AddFood(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.CreateMealFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.meals.AddFood(c.Request.Context(), mealID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *MealHandler) RemoveFood(c *gin.Context) {
	mealFoodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.meals.RemoveFood(c.Request.Context(), mealFoodID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "food removed"})
}

// NextSubstitutionGroup returns the next free alternative group number for a
// meal, so clients can open a new substitution list.
func (h *MealHandler) NextSubstitutionGroup(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	group, err := h.meals.NextSubstitutionGroup(c.Request.Context(), mealID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next_group": group})
}

func (h *MealHandler) Summaries(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summaries, err := h.meals.Summaries(c.Request.Context(), planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": summaries})
}
