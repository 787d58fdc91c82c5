package service

import (
	"context"
	"errors"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealService owns the Meal/MealFood tree of a plan: meal CRUD, per-food
// quantity scaling and substitution group allocation.
type MealService struct {
	db    *gorm.DB
	foods FoodReferenceLookup
	cache *TotalsCache
}

// Ensure MealService implements IMealService
var _ IMealService = (*MealService)(nil)

// NewMealService creates a new MealService instance. cache may be nil.
func NewMealService(db *gorm.DB, foods FoodReferenceLookup, cache *TotalsCache) *MealService {
	return &MealService{db: db, foods: foods, cache: cache}
}

// AddMeal appends a meal to a plan.
func (s *MealService) AddMeal(ctx context.Context, planID uuid.UUID, name, mealTime string) (*models.Meal, error) {
	var plan models.NutritionPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Meal{}).
		Where("plan_id = ?", planID).Count(&count).Error; err != nil {
		return nil, err
	}

	meal := models.Meal{
		PlanID:    planID,
		Name:      name,
		Time:      mealTime,
		SortOrder: int(count),
	}
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, planID)
	return &meal, nil
}

// RemoveMeal deletes a meal and all of its food rows.
func (s *MealService) RemoveMeal(ctx context.Context, mealID uuid.UUID) error {
	meal, err := s.findMeal(ctx, mealID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meal{}, "id = ?", mealID).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, meal.PlanID)
	return nil
}

// ReorderMeals rewrites the sort order of a plan's meals to match orderedIDs.
func (s *MealService) ReorderMeals(ctx context.Context, planID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			result := tx.Model(&models.Meal{}).
				Where("id = ? AND plan_id = ?", id, planID).
				Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrMealNotFound
			}
		}
		return nil
	})
}

// AddFood resolves the food source, scales its per-serving profile by the
// requested quantity and stores the scaled snapshot on the new row.
func (s *MealService) AddFood(ctx context.Context, mealID uuid.UUID, req *types.CreateMealFoodRequest) (*models.MealFood, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.OptionGroup < 0 {
		return nil, ErrInvalidGroup
	}
	if (req.FoodReferenceID == nil) == (req.Inline == nil) {
		return nil, ErrInvalidFoodSource
	}

	meal, err := s.findMeal(ctx, mealID)
	if err != nil {
		return nil, err
	}

	food := models.MealFood{
		MealID:      mealID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		OptionGroup: req.OptionGroup,
	}

	if req.FoodReferenceID != nil {
		ref, err := s.foods.FindFood(ctx, *req.FoodReferenceID)
		if err != nil {
			return nil, err
		}
		food.FoodReferenceID = &ref.ID
		food.Name = ref.Name
		food.Calories = float64(ref.Calories) * req.Quantity
		food.Protein = ref.Protein * req.Quantity
		food.Carbs = ref.Carbs * req.Quantity
		food.Fat = ref.Fat * req.Quantity
	} else {
		food.Name = req.Inline.Name
		food.Calories = req.Inline.CaloriesPerServing * req.Quantity
		food.Protein = req.Inline.ProteinPerServing * req.Quantity
		food.Carbs = req.Inline.CarbsPerServing * req.Quantity
		food.Fat = req.Inline.FatPerServing * req.Quantity
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.MealFood{}).
		Where("meal_id = ?", mealID).Count(&count).Error; err != nil {
		return nil, err
	}
	food.SortOrder = int(count)

	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, meal.PlanID)
	return &food, nil
}

// RemoveFood deletes one food row. Aggregation picks the change up on the
// next totals read.
func (s *MealService) RemoveFood(ctx context.Context, mealFoodID uuid.UUID) error {
	var food models.MealFood
	if err := s.db.WithContext(ctx).First(&food, "id = ?", mealFoodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMealFoodNotFound
		}
		return err
	}

	meal, err := s.findMeal(ctx, food.MealID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.MealFood{}, "id = ?", mealFoodID).Error; err != nil {
		return err
	}

	s.cache.Invalidate(ctx, meal.PlanID)
	return nil
}

// NextSubstitutionGroup returns the next free substitution group for a meal:
// max(existing groups)+1, or 1 when only the primary group exists.
func (s *MealService) NextSubstitutionGroup(ctx context.Context, mealID uuid.UUID) (int, error) {
	if _, err := s.findMeal(ctx, mealID); err != nil {
		return 0, err
	}

	var maxGroup int
	err := s.db.WithContext(ctx).Model(&models.MealFood{}).
		Where("meal_id = ?", mealID).
		Select("COALESCE(MAX(option_group), 0)").
		Scan(&maxGroup).Error
	if err != nil {
		return 0, err
	}

	if maxGroup < 1 {
		return 1, nil
	}
	return maxGroup + 1, nil
}

// MealSummary reports the composition state of one meal. PrimaryEmpty marks a
// meal whose group 0 has no rows yet ("still being planned"), distinct from a
// populated primary that is under target.
type MealSummary struct {
	MealID       uuid.UUID `json:"meal_id"`
	Name         string    `json:"name"`
	Time         string    `json:"time"`
	PrimaryEmpty bool      `json:"primary_empty"`
	GroupCount   int       `json:"group_count"`
}

// Summaries describes every meal of a plan in sort order.
func (s *MealService) Summaries(ctx context.Context, planID uuid.UUID) ([]MealSummary, error) {
	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Preload("Foods").
		Where("plan_id = ?", planID).
		Order("sort_order ASC").
		Find(&meals).Error; err != nil {
		return nil, err
	}

	summaries := make([]MealSummary, 0, len(meals))
	for _, m := range meals {
		groups := map[int]bool{}
		primary := false
		for _, f := range m.Foods {
			groups[f.OptionGroup] = true
			if f.OptionGroup == 0 {
				primary = true
			}
		}
		summaries = append(summaries, MealSummary{
			MealID:       m.ID,
			Name:         m.Name,
			Time:         m.Time,
			PrimaryEmpty: !primary,
			GroupCount:   len(groups),
		})
	}
	return summaries, nil
}

func (s *MealService) findMeal(ctx context.Context, mealID uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return &meal, nil
}
