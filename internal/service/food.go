package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/types"
	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FoodService handles the food reference library: shared global rows plus
// consultancy-owned custom entries.
type FoodService struct {
	db *gorm.DB
}

// Ensure FoodService implements IFoodService
var _ IFoodService = (*FoodService)(nil)

// NewFoodService creates a new FoodService instance.
func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// FindFood resolves a food reference by id.
func (s *FoodService) FindFood(ctx context.Context, id uuid.UUID) (*models.FoodReference, error) {
	var food models.FoodReference
	if err := s.db.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &food, nil
}

// ListFoods returns the rows visible to a consultancy: every global entry plus
// its own custom entries, optionally filtered by category and name.
func (s *FoodService) ListFoods(ctx context.Context, consultancyID uuid.UUID, category, query string) ([]*models.FoodReference, error) {
	dbQuery := s.db.WithContext(ctx).
		Where("is_global = ? OR consultancy_id = ?", true, consultancyID)

	if category != "" {
		dbQuery = dbQuery.Where("category = ?", category)
	}
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(name) LIKE ?", like)
	}

	var foods []models.FoodReference
	if err := dbQuery.Order("name ASC").Find(&foods).Error; err != nil {
		return nil, err
	}

	result := make([]*models.FoodReference, len(foods))
	for i := range foods {
		result[i] = &foods[i]
	}
	return result, nil
}

// CreateCustomFood creates a consultancy-owned library entry.
func (s *FoodService) CreateCustomFood(ctx context.Context, consultancyID uuid.UUID, req *types.CreateFoodRequest) (*models.FoodReference, error) {
	if !models.ValidFoodCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	food := models.FoodReference{
		Name:          req.Name,
		Category:      req.Category,
		ServingSize:   req.ServingSize,
		Calories:      req.Calories,
		Protein:       req.Protein,
		Carbs:         req.Carbs,
		Fat:           req.Fat,
		Fiber:         req.Fiber,
		Sugar:         req.Sugar,
		Sodium:        req.Sodium,
		GlycemicIndex: req.GlycemicIndex,
		HasGluten:     req.HasGluten,
		HasLactose:    req.HasLactose,
		IsVegan:       req.IsVegan,
		IsVegetarian:  req.IsVegetarian,
		IsGlobal:      false,
		ConsultancyID: &consultancyID,
	}

	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, err
	}

	if err := s.upsertEmbedding(ctx, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

// UpdateCustomFood updates a custom entry owned by the consultancy. Global
// rows and rows of other consultancies are rejected.
func (s *FoodService) UpdateCustomFood(ctx context.Context, consultancyID, foodID uuid.UUID, req *types.CreateFoodRequest) (*models.FoodReference, error) {
	food, err := s.FindFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(food, consultancyID); err != nil {
		return nil, err
	}
	if !models.ValidFoodCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	food.Name = req.Name
	food.Category = req.Category
	food.ServingSize = req.ServingSize
	food.Calories = req.Calories
	food.Protein = req.Protein
	food.Carbs = req.Carbs
	food.Fat = req.Fat
	food.Fiber = req.Fiber
	food.Sugar = req.Sugar
	food.Sodium = req.Sodium
	food.GlycemicIndex = req.GlycemicIndex
	food.HasGluten = req.HasGluten
	food.HasLactose = req.HasLactose
	food.IsVegan = req.IsVegan
	food.IsVegetarian = req.IsVegetarian

	if err := s.db.WithContext(ctx).Save(food).Error; err != nil {
		return nil, err
	}
	if err := s.upsertEmbedding(ctx, food); err != nil {
		return nil, err
	}
	return food, nil
}

// DeleteCustomFood removes a custom entry owned by the consultancy.
func (s *FoodService) DeleteCustomFood(ctx context.Context, consultancyID, foodID uuid.UUID) error {
	food, err := s.FindFood(ctx, foodID)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(food, consultancyID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.FoodReference{}, "id = ?", foodID).Error
}

func (s *FoodService) checkOwnership(food *models.FoodReference, consultancyID uuid.UUID) error {
	if food.IsGlobal {
		return ErrGlobalFoodReadOnly
	}
	if food.ConsultancyID == nil || *food.ConsultancyID != consultancyID {
		return ErrForbidden
	}
	return nil
}

// SuggestSubstitutes returns up to limit same-category foods ordered by
// nutrient-profile similarity to the given food. On postgres this is a
// pgvector nearest-neighbour query; elsewhere it falls back to an in-process
// macro distance.
func (s *FoodService) SuggestSubstitutes(ctx context.Context, foodID uuid.UUID, limit int) ([]*models.FoodReference, error) {
	if limit <= 0 {
		limit = 5
	}

	food, err := s.FindFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	var foods []models.FoodReference
	if s.db.Dialector.Name() == "postgres" {
		vec := nutrientVector(food)
		err = s.db.WithContext(ctx).
			Joins("JOIN food_embeddings ON food_embeddings.food_reference_id = food_references.id").
			Where("food_references.category = ? AND food_references.id <> ?", food.Category, food.ID).
			Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "food_embeddings.embedding <-> ?", Vars: []interface{}{vec}},
			}).
			Limit(limit).
			Find(&foods).Error
		if err != nil {
			return nil, err
		}
	} else {
		if err := s.db.WithContext(ctx).
			Where("category = ? AND id <> ?", food.Category, food.ID).
			Find(&foods).Error; err != nil {
			return nil, err
		}
		sort.Slice(foods, func(i, j int) bool {
			return macroDistance(food, &foods[i]) < macroDistance(food, &foods[j])
		})
		if len(foods) > limit {
			foods = foods[:limit]
		}
	}

	result := make([]*models.FoodReference, len(foods))
	for i := range foods {
		result[i] = &foods[i]
	}
	return result, nil
}

// upsertEmbedding maintains the nutrient-profile vector for substitute
// search. Skipped off postgres, where the vector table does not exist.
func (s *FoodService) upsertEmbedding(ctx context.Context, food *models.FoodReference) error {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	emb := models.FoodEmbedding{
		FoodReferenceID: food.ID,
		Embedding:       nutrientVector(food),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "food_reference_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding"}),
		}).
		Create(&emb).Error
}

// nutrientVector maps a per-serving profile to the 8-dimension vector used for
// similarity. Calories and sodium are scaled down so no single axis dominates.
func nutrientVector(f *models.FoodReference) pgvector.Vector {
	return pgvector.NewVector([]float32{
		float32(f.Calories) / 100,
		float32(f.Protein),
		float32(f.Carbs),
		float32(f.Fat),
		float32(f.Fiber),
		float32(f.Sugar),
		float32(f.Sodium) / 100,
		float32(f.GlycemicIndex) / 10,
	})
}

func macroDistance(a, b *models.FoodReference) float64 {
	dc := float64(a.Calories-b.Calories) / 100
	dp := a.Protein - b.Protein
	dcarb := a.Carbs - b.Carbs
	df := a.Fat - b.Fat
	return math.Sqrt(dc*dc + dp*dp + dcarb*dcarb + df*df)
}
