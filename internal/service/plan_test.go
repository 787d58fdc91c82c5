package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultafit/nutriplan/backend/internal/mocks"
	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/testhelpers"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

func defaultTargets() types.PlanTargets {
	return types.PlanTargets{
		DailyCalories: 2000,
		ProteinGrams:  150,
		CarbsGrams:    200,
		FatGrams:      60,
	}
}

func TestCreatePlan_CompletesPreviousActive(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)
	patientID := uuid.New()
	nutritionistID := uuid.New()

	first, err := plans.CreatePlan(context.Background(), patientID, nutritionistID, "phase 1", defaultTargets())
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusActive, first.Status)

	second, err := plans.CreatePlan(context.Background(), patientID, nutritionistID, "phase 2", defaultTargets())
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusActive, second.Status)

	reloaded, err := plans.GetPlan(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.CompletedAt)

	var active int64
	require.NoError(t, db.Model(&models.NutritionPlan{}).
		Where("patient_id = ? AND status = ?", patientID, models.PlanStatusActive).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestCreatePlan_InvalidTargets(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)

	targets := defaultTargets()
	targets.DailyCalories = 0
	_, err := plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", targets)
	assert.ErrorIs(t, err, service.ErrInvalidTargets)

	targets = defaultTargets()
	targets.FatGrams = -1
	_, err = plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", targets)
	assert.ErrorIs(t, err, service.ErrInvalidTargets)
}

func TestUpdateTargets(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)

	plan, err := plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", defaultTargets())
	require.NoError(t, err)

	updated, err := plans.UpdateTargets(context.Background(), plan.ID, types.PlanTargets{
		DailyCalories: 1800,
		ProteinGrams:  160,
		CarbsGrams:    150,
		FatGrams:      55,
	})
	require.NoError(t, err)
	assert.Equal(t, 1800, updated.DailyCalories)
	assert.InDelta(t, 160, updated.ProteinGrams, 0.001)

	_, err = plans.UpdateTargets(context.Background(), uuid.New(), defaultTargets())
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}

func TestArchivePlan(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)

	plan, err := plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", defaultTargets())
	require.NoError(t, err)

	require.NoError(t, plans.ArchivePlan(context.Background(), plan.ID))

	reloaded, err := plans.GetPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusArchived, reloaded.Status)

	assert.ErrorIs(t, plans.ArchivePlan(context.Background(), uuid.New()), service.ErrPlanNotFound)
}

func TestDailyTotals_CountsOnlyPrimaryGroup(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ref := chickenBreast()
	plans := service.NewPlanService(db, nil)
	meals := service.NewMealService(db, mocks.NewFoodLookup(ref), nil)

	plan, err := plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", defaultTargets())
	require.NoError(t, err)

	lunch, err := meals.AddMeal(context.Background(), plan.ID, "lunch", "12:30")
	require.NoError(t, err)

	_, err = meals.AddFood(context.Background(), lunch.ID, &types.CreateMealFoodRequest{
		FoodReferenceID: &ref.ID,
		Quantity:        2,
		Unit:            "serving",
	})
	require.NoError(t, err)

	// Substitution alternative: informational, never summed.
	_, err = meals.AddFood(context.Background(), lunch.ID, &types.CreateMealFoodRequest{
		Inline: &types.InlineFood{
			Name:               "tofu",
			CaloriesPerServing: 120,
			ProteinPerServing:  12,
		},
		Quantity:    2,
		Unit:        "serving",
		OptionGroup: 1,
	})
	require.NoError(t, err)

	totals, err := plans.DailyTotals(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.InDelta(t, 330, totals.Calories, 0.001)
	assert.InDelta(t, 62, totals.Protein, 0.001)

	// Re-read returns the same numbers.
	again, err := plans.DailyTotals(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, totals, again)
}

func TestDailyTotals_EmptyPlanIsZero(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)
	meals := service.NewMealService(db, mocks.NewFoodLookup(), nil)

	plan, err := plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", defaultTargets())
	require.NoError(t, err)
	_, err = meals.AddMeal(context.Background(), plan.ID, "lunch", "12:30")
	require.NoError(t, err)

	totals, err := plans.DailyTotals(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.Calories)
	assert.Zero(t, totals.Protein)
	assert.Zero(t, totals.Carbs)
	assert.Zero(t, totals.Fat)

	_, err = plans.DailyTotals(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}

func TestAdherenceRatio_ClampsAndFlagsExceeded(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)
	meals := service.NewMealService(db, mocks.NewFoodLookup(), nil)

	plan, err := plans.CreatePlan(context.Background(), uuid.New(), uuid.New(), "p", types.PlanTargets{
		DailyCalories: 1000,
		ProteinGrams:  100,
		CarbsGrams:    0,
		FatGrams:      50,
	})
	require.NoError(t, err)

	lunch, err := meals.AddMeal(context.Background(), plan.ID, "lunch", "12:30")
	require.NoError(t, err)
	_, err = meals.AddFood(context.Background(), lunch.ID, &types.CreateMealFoodRequest{
		Inline: &types.InlineFood{
			Name:               "bowl",
			CaloriesPerServing: 1200,
			ProteinPerServing:  50,
			CarbsPerServing:    80,
			FatPerServing:      40,
		},
		Quantity: 1,
		Unit:     "bowl",
	})
	require.NoError(t, err)

	report, err := plans.AdherenceRatio(context.Background(), plan.ID)
	require.NoError(t, err)

	assert.InDelta(t, 100, report.Calories.Percent, 0.001, "over target clamps to 100")
	assert.True(t, report.Calories.Exceeded)

	assert.InDelta(t, 50, report.Protein.Percent, 0.001)
	assert.False(t, report.Protein.Exceeded)

	assert.Zero(t, report.Carbs.Percent, "zero target yields zero percent")
	assert.False(t, report.Carbs.Exceeded)
	assert.InDelta(t, 80, report.Carbs.Realized, 0.001)

	assert.InDelta(t, 80, report.Fat.Percent, 0.001)
}
