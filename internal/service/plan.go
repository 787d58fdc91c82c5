package service

import (
	"context"
	"errors"
	"time"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyTotals is the realized daily nutrition of a plan: the sum of the
// scaled macros of every group-0 row across its meals. Substitution
// alternatives (group > 0) are informational and never counted.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MacroAdherence reports progress toward one macro target. Percent is clamped
// to 100; over-consumption raises Exceeded instead of pushing past 100.
type MacroAdherence struct {
	Realized float64 `json:"realized"`
	Target   float64 `json:"target"`
	Percent  float64 `json:"percent"`
	Exceeded bool    `json:"exceeded"`
}

// AdherenceReport compares a plan's realized totals against its targets.
type AdherenceReport struct {
	PlanID   uuid.UUID      `json:"plan_id"`
	Calories MacroAdherence `json:"calories"`
	Protein  MacroAdherence `json:"protein"`
	Carbs    MacroAdherence `json:"carbs"`
	Fat      MacroAdherence `json:"fat"`
}

// PlanService owns the NutritionPlan lifecycle and the aggregation of meals
// into realized daily totals.
type PlanService struct {
	db    *gorm.DB
	cache *TotalsCache
}

// Ensure PlanService implements IPlanService
var _ IPlanService = (*PlanService)(nil)

// NewPlanService creates a new PlanService instance. cache may be nil.
func NewPlanService(db *gorm.DB, cache *TotalsCache) *PlanService {
	return &PlanService{db: db, cache: cache}
}

func validateTargets(t types.PlanTargets) error {
	if t.DailyCalories <= 0 || t.ProteinGrams < 0 || t.CarbsGrams < 0 || t.FatGrams < 0 {
		return ErrInvalidTargets
	}
	return nil
}

// CreatePlan creates a new active plan for a patient. Any existing active
// plan is completed in the same transaction, so no reader ever observes two
// active plans for one patient.
func (s *PlanService) CreatePlan(ctx context.Context, patientID, nutritionistID uuid.UUID, name string, targets types.PlanTargets) (*models.NutritionPlan, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}

	now := time.Now()
	plan := models.NutritionPlan{
		PatientID:      patientID,
		NutritionistID: nutritionistID,
		Name:           name,
		DailyCalories:  targets.DailyCalories,
		ProteinGrams:   targets.ProteinGrams,
		CarbsGrams:     targets.CarbsGrams,
		FatGrams:       targets.FatGrams,
		Status:         models.PlanStatusActive,
		ActivatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.NutritionPlan{}).
			Where("patient_id = ? AND status = ?", patientID, models.PlanStatusActive).
			Updates(map[string]interface{}{
				"status":       models.PlanStatusCompleted,
				"completed_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetPlan retrieves a plan with its meals and foods in sort order.
func (s *PlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*models.NutritionPlan, error) {
	var plan models.NutritionPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("meals.sort_order ASC")
		}).
		Preload("Meals.Foods", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_foods.option_group ASC, meal_foods.sort_order ASC")
		}).
		First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans lists a patient's plans, newest first.
func (s *PlanService) ListPlans(ctx context.Context, patientID uuid.UUID) ([]*models.NutritionPlan, error) {
	var plans []models.NutritionPlan
	if err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("activated_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}

	result := make([]*models.NutritionPlan, len(plans))
	for i := range plans {
		result[i] = &plans[i]
	}
	return result, nil
}

// UpdateTargets updates a plan's daily targets in place.
func (s *PlanService) UpdateTargets(ctx context.Context, planID uuid.UUID, targets types.PlanTargets) (*models.NutritionPlan, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.NutritionPlan{}).
		Where("id = ?", planID).
		Updates(map[string]interface{}{
			"daily_calories": targets.DailyCalories,
			"protein_grams":  targets.ProteinGrams,
			"carbs_grams":    targets.CarbsGrams,
			"fat_grams":      targets.FatGrams,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPlanNotFound
	}
	return s.GetPlan(ctx, planID)
}

// ArchivePlan moves a plan to its terminal archived state.
func (s *PlanService) ArchivePlan(ctx context.Context, planID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.NutritionPlan{}).
		Where("id = ?", planID).
		Update("status", models.PlanStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// DailyTotals sums the scaled macros of the group-0 rows of every meal in the
// plan. A meal whose primary group is empty contributes zero; that includes a
// meal with only substitution alternatives.
func (s *PlanService) DailyTotals(ctx context.Context, planID uuid.UUID) (*DailyTotals, error) {
	if cached, ok := s.cache.Get(ctx, planID); ok {
		return cached, nil
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	totals := &DailyTotals{}
	for _, meal := range plan.Meals {
		if meal.PlanID != plan.ID {
			return nil, ErrCorruptPlan
		}
		for _, food := range meal.Foods {
			if food.OptionGroup != 0 {
				continue
			}
			totals.Calories += food.Calories
			totals.Protein += food.Protein
			totals.Carbs += food.Carbs
			totals.Fat += food.Fat
		}
	}

	s.cache.Set(ctx, planID, totals)
	return totals, nil
}

// AdherenceRatio compares realized totals to the plan's targets per macro.
func (s *PlanService) AdherenceRatio(ctx context.Context, planID uuid.UUID) (*AdherenceReport, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	totals, err := s.DailyTotals(ctx, planID)
	if err != nil {
		return nil, err
	}

	return &AdherenceReport{
		PlanID:   plan.ID,
		Calories: macroAdherence(totals.Calories, float64(plan.DailyCalories)),
		Protein:  macroAdherence(totals.Protein, plan.ProteinGrams),
		Carbs:    macroAdherence(totals.Carbs, plan.CarbsGrams),
		Fat:      macroAdherence(totals.Fat, plan.FatGrams),
	}, nil
}

func macroAdherence(realized, target float64) MacroAdherence {
	a := MacroAdherence{Realized: realized, Target: target}
	if target <= 0 {
		return a
	}
	ratio := realized / target
	if ratio > 1 {
		a.Percent = 100
		a.Exceeded = true
	} else {
		a.Percent = ratio * 100
	}
	return a
}
