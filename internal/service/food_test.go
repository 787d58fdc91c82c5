package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/testhelpers"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

func seedGlobalFood(t *testing.T, db *gorm.DB, name, category string, calories int, protein float64) *models.FoodReference {
	t.Helper()
	food := &models.FoodReference{
		Name:        name,
		Category:    category,
		ServingSize: "100g",
		Calories:    calories,
		Protein:     protein,
		IsGlobal:    true,
	}
	require.NoError(t, db.Create(food).Error)
	return food
}

func customFoodReq(name string) *types.CreateFoodRequest {
	return &types.CreateFoodRequest{
		Name:        name,
		Category:    models.CategoryProtein,
		ServingSize: "1 unit",
		Calories:    90,
		Protein:     10,
		Carbs:       2,
		Fat:         4,
	}
}

func TestListFoods_ScopedToConsultancy(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	foods := service.NewFoodService(db)
	mine := uuid.New()
	other := uuid.New()

	seedGlobalFood(t, db, "brown rice", models.CategoryCarbohydrate, 111, 2.6)
	_, err := foods.CreateCustomFood(context.Background(), mine, customFoodReq("house protein shake"))
	require.NoError(t, err)
	_, err = foods.CreateCustomFood(context.Background(), other, customFoodReq("their shake"))
	require.NoError(t, err)

	visible, err := foods.ListFoods(context.Background(), mine, "", "")
	require.NoError(t, err)
	require.Len(t, visible, 2)

	names := []string{visible[0].Name, visible[1].Name}
	assert.Contains(t, names, "brown rice")
	assert.Contains(t, names, "house protein shake")

	filtered, err := foods.ListFoods(context.Background(), mine, models.CategoryCarbohydrate, "")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "brown rice", filtered[0].Name)

	searched, err := foods.ListFoods(context.Background(), mine, "", "SHAKE")
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "house protein shake", searched[0].Name)
}

func TestCreateCustomFood_InvalidCategory(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	foods := service.NewFoodService(db)

	req := customFoodReq("mystery")
	req.Category = "mystery"
	_, err := foods.CreateCustomFood(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, service.ErrInvalidCategory)
}

func TestUpdateCustomFood_Ownership(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	foods := service.NewFoodService(db)
	mine := uuid.New()
	other := uuid.New()

	global := seedGlobalFood(t, db, "oats", models.CategoryCarbohydrate, 389, 16.9)
	custom, err := foods.CreateCustomFood(context.Background(), mine, customFoodReq("house granola"))
	require.NoError(t, err)

	_, err = foods.UpdateCustomFood(context.Background(), mine, global.ID, customFoodReq("oats v2"))
	assert.ErrorIs(t, err, service.ErrGlobalFoodReadOnly)

	_, err = foods.UpdateCustomFood(context.Background(), other, custom.ID, customFoodReq("stolen"))
	assert.ErrorIs(t, err, service.ErrForbidden)

	updated, err := foods.UpdateCustomFood(context.Background(), mine, custom.ID, customFoodReq("house granola v2"))
	require.NoError(t, err)
	assert.Equal(t, "house granola v2", updated.Name)

	_, err = foods.UpdateCustomFood(context.Background(), mine, uuid.New(), customFoodReq("nope"))
	assert.ErrorIs(t, err, service.ErrFoodNotFound)
}

func TestDeleteCustomFood(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	foods := service.NewFoodService(db)
	mine := uuid.New()

	global := seedGlobalFood(t, db, "banana", models.CategoryFruit, 89, 1.1)
	custom, err := foods.CreateCustomFood(context.Background(), mine, customFoodReq("house bar"))
	require.NoError(t, err)

	assert.ErrorIs(t, foods.DeleteCustomFood(context.Background(), mine, global.ID),
		service.ErrGlobalFoodReadOnly)

	require.NoError(t, foods.DeleteCustomFood(context.Background(), mine, custom.ID))
	_, err = foods.FindFood(context.Background(), custom.ID)
	assert.ErrorIs(t, err, service.ErrFoodNotFound)
}

func TestSuggestSubstitutes_RanksByMacroSimilarity(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	foods := service.NewFoodService(db)

	chicken := seedGlobalFood(t, db, "chicken breast", models.CategoryProtein, 165, 31)
	turkey := seedGlobalFood(t, db, "turkey breast", models.CategoryProtein, 160, 30)
	seedGlobalFood(t, db, "pork belly", models.CategoryProtein, 518, 9.3)
	seedGlobalFood(t, db, "white rice", models.CategoryCarbohydrate, 130, 2.7)

	subs, err := foods.SuggestSubstitutes(context.Background(), chicken.ID, 2)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, turkey.ID, subs[0].ID, "closest profile ranks first")
	for _, sub := range subs {
		assert.Equal(t, models.CategoryProtein, sub.Category)
		assert.NotEqual(t, chicken.ID, sub.ID)
	}

	_, err = foods.SuggestSubstitutes(context.Background(), uuid.New(), 2)
	assert.ErrorIs(t, err, service.ErrFoodNotFound)
}
