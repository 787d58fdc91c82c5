package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/consultafit/nutriplan/backend/internal/api"
	"github.com/consultafit/nutriplan/backend/internal/database"
	"github.com/consultafit/nutriplan/backend/internal/middleware"
	"github.com/consultafit/nutriplan/backend/internal/models"
)

// Handlers bundles the API handlers the router mounts.
type Handlers struct {
	Auth      *api.AuthHandler
	Food      *api.FoodHandler
	Plan      *api.PlanHandler
	Meal      *api.MealHandler
	Energy    *api.EnergyHandler
	Evolution *api.EvolutionHandler
}

// Limiters bundles the per-user rate limiters applied to write routes. Nil
// limiters disable throttling, which tests rely on.
type Limiters struct {
	PlanMutation *middleware.RateLimiter
	Import       *middleware.RateLimiter
}

// Setup configures the application routes.
//
// Everything under /api/v1 except login requires a valid token. Reads are open
// to both roles, so patients can follow their own plans and progress; every
// mutation requires the nutritionist role.
func Setup(h Handlers, validator middleware.TokenValidator, limiters Limiters, health *database.DB, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Auth routes
	v1.POST("/auth/login", h.Auth.Login)

	// Protected read routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		protected.POST("/energy/compute", h.Energy.Compute)

		protected.GET("/foods", h.Food.ListFoods)
		protected.GET("/foods/:id", h.Food.GetFood)
		protected.GET("/foods/:id/substitutes", h.Food.SuggestSubstitutes)

		protected.GET("/plans/:id", h.Plan.GetPlan)
		protected.GET("/plans/:id/totals", h.Plan.DailyTotals)
		protected.GET("/plans/:id/adherence", h.Plan.Adherence)
		protected.GET("/plans/:id/meals", h.Meal.Summaries)
		protected.GET("/meals/:id/next-group", h.Meal.NextSubstitutionGroup)

		protected.GET("/patients/:id/plans", h.Plan.ListPlans)
		protected.GET("/patients/:id/assessments", h.Evolution.Series)
		protected.GET("/patients/:id/evolution/delta", h.Evolution.Delta)
		protected.GET("/patients/:id/evolution/adherence-trend", h.Evolution.AdherenceTrend)
	}

	// Mutations: nutritionist only, write routes rate limited.
	nutritionist := protected.Group("")
	nutritionist.Use(middleware.RequireRole(models.RoleNutritionist))
	{
		mutation := limiters.PlanMutation.RateLimitMiddleware()
		importLimit := limiters.Import.RateLimitMiddleware()

		nutritionist.POST("/foods", h.Food.CreateFood)
		nutritionist.PUT("/foods/:id", h.Food.UpdateFood)
		nutritionist.DELETE("/foods/:id", h.Food.DeleteFood)
		nutritionist.GET("/food-search/external", h.Food.SearchExternal)
		nutritionist.POST("/foods/import", importLimit, h.Food.ImportUpload)
		nutritionist.POST("/foods/import/s3", importLimit, h.Food.ImportFromS3)

		nutritionist.POST("/plans", mutation, h.Plan.CreatePlan)
		nutritionist.PUT("/plans/:id/targets", mutation, h.Plan.UpdateTargets)
		nutritionist.POST("/plans/:id/archive", mutation, h.Plan.ArchivePlan)

		nutritionist.POST("/plans/:id/meals", mutation, h.Meal.AddMeal)
		nutritionist.PUT("/plans/:id/meals/order", mutation, h.Meal.ReorderMeals)
		nutritionist.DELETE("/meals/:id", mutation, h.Meal.RemoveMeal)
		nutritionist.POST("/meals/:id/foods", mutation, h.Meal.AddFood)
		nutritionist.DELETE("/meal-foods/:id", mutation, h.Meal.RemoveFood)

		nutritionist.POST("/assessments", mutation, h.Evolution.CreateAssessment)
	}

	return router
}
