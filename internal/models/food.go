package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Food categories used by the reference library.
const (
	CategoryProtein      = "protein"
	CategoryCarbohydrate = "carbohydrate"
	CategoryFat          = "fat"
	CategoryVegetable    = "vegetable"
	CategoryFruit        = "fruit"
	CategoryDairy        = "dairy"
	CategoryBeverage     = "beverage"
	CategorySupplement   = "supplement"
	CategoryOther        = "other"
)

// FoodCategories lists every valid category value.
var FoodCategories = []string{
	CategoryProtein,
	CategoryCarbohydrate,
	CategoryFat,
	CategoryVegetable,
	CategoryFruit,
	CategoryDairy,
	CategoryBeverage,
	CategorySupplement,
	CategoryOther,
}

// ValidFoodCategory reports whether category is one of the known values.
func ValidFoodCategory(category string) bool {
	for _, c := range FoodCategories {
		if c == category {
			return true
		}
	}
	return false
}

// FoodReference is one entry of the food library. Macro fields are per serving.
// Global rows are shared reference data and read-only to consultancies; custom
// rows belong to the consultancy that created them.
type FoodReference struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Category      string         `gorm:"size:50;not null" json:"category"`
	ServingSize   string         `gorm:"size:50;not null" json:"serving_size"`
	Calories      int            `gorm:"not null" json:"calories"`
	Protein       float64        `gorm:"type:float;not null" json:"protein"`
	Carbs         float64        `gorm:"type:float;not null" json:"carbs"`
	Fat           float64        `gorm:"type:float;not null" json:"fat"`
	Fiber         float64        `gorm:"type:float" json:"fiber"`
	Sugar         float64        `gorm:"type:float" json:"sugar"`
	Sodium        int            `json:"sodium"`
	GlycemicIndex int            `json:"glycemic_index"`
	HasGluten     bool           `json:"has_gluten"`
	HasLactose    bool           `json:"has_lactose"`
	IsVegan       bool           `json:"is_vegan"`
	IsVegetarian  bool           `json:"is_vegetarian"`
	IsGlobal      bool           `gorm:"not null;default:false" json:"is_global"`
	ConsultancyID *uuid.UUID     `gorm:"type:uuid;index" json:"consultancy_id,omitempty"`
}

func (f *FoodReference) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FoodEmbedding stores the nutrient-profile vector used for substitute
// suggestions. Kept in its own table so the sqlite test path can migrate the
// rest of the schema without pgvector.
type FoodEmbedding struct {
	FoodReferenceID uuid.UUID       `gorm:"type:uuid;primary_key" json:"food_reference_id"`
	Embedding       pgvector.Vector `gorm:"type:vector(8)" json:"-"`
}
