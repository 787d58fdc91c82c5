package service

import (
	"context"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/types"
	"github.com/google/uuid"
)

// FoodReferenceLookup resolves food reference ids to their per-serving macro
// profile. The meal engine depends on this capability instead of the library
// service directly so it can be tested against an in-memory fake.
type FoodReferenceLookup interface {
	FindFood(ctx context.Context, id uuid.UUID) (*models.FoodReference, error)
}

// IFoodService defines the interface for food library operations.
type IFoodService interface {
	FoodReferenceLookup
	ListFoods(ctx context.Context, consultancyID uuid.UUID, category, query string) ([]*models.FoodReference, error)
	CreateCustomFood(ctx context.Context, consultancyID uuid.UUID, req *types.CreateFoodRequest) (*models.FoodReference, error)
	UpdateCustomFood(ctx context.Context, consultancyID, foodID uuid.UUID, req *types.CreateFoodRequest) (*models.FoodReference, error)
	DeleteCustomFood(ctx context.Context, consultancyID, foodID uuid.UUID) error
	SuggestSubstitutes(ctx context.Context, foodID uuid.UUID, limit int) ([]*models.FoodReference, error)
}

// IMealService defines the interface for meal composition operations.
type IMealService interface {
	AddMeal(ctx context.Context, planID uuid.UUID, name, mealTime string) (*models.Meal, error)
	RemoveMeal(ctx context.Context, mealID uuid.UUID) error
	ReorderMeals(ctx context.Context, planID uuid.UUID, orderedIDs []uuid.UUID) error
	AddFood(ctx context.Context, mealID uuid.UUID, req *types.CreateMealFoodRequest) (*models.MealFood, error)
	RemoveFood(ctx context.Context, mealFoodID uuid.UUID) error
	NextSubstitutionGroup(ctx context.Context, mealID uuid.UUID) (int, error)
	Summaries(ctx context.Context, planID uuid.UUID) ([]MealSummary, error)
}

// IPlanService defines the interface for nutrition plan operations.
type IPlanService interface {
	CreatePlan(ctx context.Context, patientID, nutritionistID uuid.UUID, name string, targets types.PlanTargets) (*models.NutritionPlan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*models.NutritionPlan, error)
	ListPlans(ctx context.Context, patientID uuid.UUID) ([]*models.NutritionPlan, error)
	UpdateTargets(ctx context.Context, planID uuid.UUID, targets types.PlanTargets) (*models.NutritionPlan, error)
	ArchivePlan(ctx context.Context, planID uuid.UUID) error
	DailyTotals(ctx context.Context, planID uuid.UUID) (*DailyTotals, error)
	AdherenceRatio(ctx context.Context, planID uuid.UUID) (*AdherenceReport, error)
}

// IEvolutionService defines the interface for patient evolution tracking.
type IEvolutionService interface {
	CreateAssessment(ctx context.Context, nutritionistID uuid.UUID, req *types.CreateAssessmentRequest) (*models.AnthropometricAssessment, error)
	SeriesFor(ctx context.Context, patientID uuid.UUID) ([]models.AnthropometricAssessment, error)
	Delta(metric string, series []models.AnthropometricAssessment) (float64, error)
	AdherenceTrend(ctx context.Context, patientID uuid.UUID, windowDays int) ([]TrendPoint, error)
}
