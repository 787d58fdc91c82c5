package types

import (
	"github.com/google/uuid"
)

// PlanTargets carries the daily calorie/macro goal of a plan.
type PlanTargets struct {
	DailyCalories int     `json:"daily_calories" binding:"required,gt=0"`
	ProteinGrams  float64 `json:"protein_grams" binding:"gte=0"`
	CarbsGrams    float64 `json:"carbs_grams" binding:"gte=0"`
	FatGrams      float64 `json:"fat_grams" binding:"gte=0"`
}

// CreatePlanRequest represents the request body for creating a nutrition plan.
// Creating a plan completes the patient's previous active plan.
type CreatePlanRequest struct {
	PatientID uuid.UUID   `json:"patient_id" binding:"required"`
	Name      string      `json:"name" binding:"required,max=255"`
	Targets   PlanTargets `json:"targets" binding:"required"`
}

// UpdatePlanTargetsRequest updates a plan's daily targets in place.
type UpdatePlanTargetsRequest struct {
	Targets PlanTargets `json:"targets" binding:"required"`
}

// CreateMealRequest represents the request body for adding a meal to a plan.
type CreateMealRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Time string `json:"time" binding:"required,len=5"`
}

// InlineFood carries per-serving macros for a free-text food entry that is not
// drawn from the reference library.
type InlineFood struct {
	Name               string  `json:"name" binding:"required,max=255"`
	CaloriesPerServing float64 `json:"calories_per_serving" binding:"gte=0"`
	ProteinPerServing  float64 `json:"protein_per_serving" binding:"gte=0"`
	CarbsPerServing    float64 `json:"carbs_per_serving" binding:"gte=0"`
	FatPerServing      float64 `json:"fat_per_serving" binding:"gte=0"`
}

// CreateMealFoodRequest represents the request body for adding a food to a
// meal. Exactly one of FoodReferenceID or Inline must be set.
type CreateMealFoodRequest struct {
	FoodReferenceID *uuid.UUID  `json:"food_reference_id,omitempty"`
	Inline          *InlineFood `json:"inline,omitempty"`
	Quantity        float64     `json:"quantity" binding:"required"`
	Unit            string      `json:"unit" binding:"required,max=50"`
	OptionGroup     int         `json:"option_group" binding:"gte=0"`
}

// CreateFoodRequest represents the request body for a consultancy's custom
// food entry.
type CreateFoodRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Category      string  `json:"category" binding:"required"`
	ServingSize   string  `json:"serving_size" binding:"required,max=50"`
	Calories      int     `json:"calories" binding:"gte=0"`
	Protein       float64 `json:"protein" binding:"gte=0"`
	Carbs         float64 `json:"carbs" binding:"gte=0"`
	Fat           float64 `json:"fat" binding:"gte=0"`
	Fiber         float64 `json:"fiber" binding:"gte=0"`
	Sugar         float64 `json:"sugar" binding:"gte=0"`
	Sodium        int     `json:"sodium" binding:"gte=0"`
	GlycemicIndex int     `json:"glycemic_index" binding:"gte=0,lte=110"`
	HasGluten     bool    `json:"has_gluten"`
	HasLactose    bool    `json:"has_lactose"`
	IsVegan       bool    `json:"is_vegan"`
	IsVegetarian  bool    `json:"is_vegetarian"`
}

// ComputeEnergyRequest represents the request body for the energy/macro
// calculator. The result is returned, never applied to a plan implicitly.
type ComputeEnergyRequest struct {
	WeightKg      float64 `json:"weight_kg" binding:"required"`
	HeightCm      float64 `json:"height_cm" binding:"required"`
	AgeYears      int     `json:"age_years" binding:"required"`
	Sex           string  `json:"sex" binding:"required,oneof=male female"`
	ActivityLevel string  `json:"activity_level" binding:"required,oneof=sedentary light moderate active veryActive"`
	Goal          string  `json:"goal" binding:"required,oneof=loss maintenance gain"`
}

// CreateAssessmentRequest represents the request body for recording an
// anthropometric assessment.
type CreateAssessmentRequest struct {
	PatientID      uuid.UUID `json:"patient_id" binding:"required"`
	Date           string    `json:"date" binding:"required"` // YYYY-MM-DD
	WeightKg       float64   `json:"weight_kg" binding:"required"`
	HeightCm       float64   `json:"height_cm" binding:"required"`
	AgeYears       int       `json:"age_years" binding:"required"`
	Sex            string    `json:"sex" binding:"required,oneof=male female"`
	BodyFatPercent *float64  `json:"body_fat_percent,omitempty"`
	MuscleMassKg   *float64  `json:"muscle_mass_kg,omitempty"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
