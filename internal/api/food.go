package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

// FoodHandler exposes the food reference library: global read-only entries,
// consultancy-scoped custom entries, substitute suggestions, external search
// and bulk import.
type FoodHandler struct {
	foods    service.IFoodService
	importer *service.FoodImportService
	remote   *service.RemoteFoodClient
	logger   *zap.Logger
}

func NewFoodHandler(foods service.IFoodService, importer *service.FoodImportService, remote *service.RemoteFoodClient, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{foods: foods, importer: importer, remote: remote, logger: logger}
}

func (h *FoodHandler) ListFoods(c *gin.Context) {
	consultancyID, ok := contextUUID(c, "consultancy_id")
	if !ok {
		return
	}

	foods, err := h.foods.ListFoods(c.Request.Context(), consultancyID, c.Query("category"), c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := h.foods.FindFood(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) SuggestSubstitutes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := 5
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 25 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	subs, err := h.foods.SuggestSubstitutes(c.Request.Context(), id, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"substitutes": subs})
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	consultancyID, ok := contextUUID(c, "consultancy_id")
	if !ok {
		return
	}

	var req types.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.foods.CreateCustomFood(c.Request.Context(), consultancyID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *FoodHandler) UpdateFood(c *gin.Context) {
	consultancyID, ok := contextUUID(c, "consultancy_id")
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.foods.UpdateCustomFood(c.Request.Context(), consultancyID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) DeleteFood(c *gin.Context) {
	consultancyID, ok := contextUUID(c, "consultancy_id")
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.foods.DeleteCustomFood(c.Request.Context(), consultancyID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "food deleted"})
}

func (h *FoodHandler) SearchExternal(c *gin.Context) {
	if h.remote == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "external food search is not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	results, err := h.remote.Search(c.Request.Context(), query)
	if err != nil {
		h.logger.Warn("external food search failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "external food database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ImportUpload ingests an uploaded XLSX food table directly.
func (h *FoodHandler) ImportUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	result, err := h.importer.ImportFromReader(c.Request.Context(), f)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportFromS3 ingests a previously uploaded food table by object key.
func (h *FoodHandler) ImportFromS3(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.importer.ImportFromS3(c.Request.Context(), req.Key)
	if err != nil {
		h.logger.Error("food table import failed", zap.String("key", req.Key), zap.Error(err))
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
