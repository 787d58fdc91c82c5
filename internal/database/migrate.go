package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/consultafit/nutriplan/backend/internal/models"
)

// RunMigrations brings the schema up to date. On postgres the pgvector
// extension is installed before the embedding table is created; on sqlite
// (tests) the vector table is skipped entirely.
func RunMigrations(db *gorm.DB) error {
	base := []interface{}{
		&models.User{},
		&models.FoodReference{},
		&models.NutritionPlan{},
		&models.Meal{},
		&models.MealFood{},
		&models.AnthropometricAssessment{},
	}

	if db.Dialector.Name() != "postgres" {
		return db.AutoMigrate(base...)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector;").Error; err != nil {
		return fmt.Errorf("failed to install pgvector extension: %w", err)
	}

	all := append(base, &models.FoodEmbedding{})
	return db.AutoMigrate(all...)
}
