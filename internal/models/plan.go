package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan statuses. A patient has at most one active plan at a time; old active
// plans are completed, never deleted.
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusArchived  = "archived"
)

// NutritionPlan holds a patient's daily targets and the meals planned to meet
// them.
type NutritionPlan struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	PatientID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	NutritionistID uuid.UUID      `gorm:"type:uuid;not null" json:"nutritionist_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	DailyCalories  int            `gorm:"not null" json:"daily_calories"`
	ProteinGrams   float64        `gorm:"type:float;not null" json:"protein_grams"`
	CarbsGrams     float64        `gorm:"type:float;not null" json:"carbs_grams"`
	FatGrams       float64        `gorm:"type:float;not null" json:"fat_grams"`
	Status         string         `gorm:"size:20;not null;default:'active'" json:"status"`
	ActivatedAt    time.Time      `json:"activated_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	Meals          []Meal         `gorm:"foreignKey:PlanID" json:"meals,omitempty"`
}

func (p *NutritionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Meal groups the foods planned for one time of day. Time is an "HH:MM" label;
// ordering within the plan follows SortOrder.
type Meal struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	PlanID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Time      string         `gorm:"size:5;not null" json:"time"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	Foods     []MealFood     `gorm:"foreignKey:MealID" json:"foods,omitempty"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MealFood is one row of a meal. Macro fields are the already-scaled totals
// for Quantity, never per-serving values; that convention is what reporting
// and export consumers round-trip on. OptionGroup 0 is the primary selection
// counted in daily totals; rows sharing a group > 0 are interchangeable
// alternatives to the primary, not co-eaten.
type MealFood struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	MealID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"meal_id"`
	FoodReferenceID *uuid.UUID     `gorm:"type:uuid" json:"food_reference_id,omitempty"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Quantity        float64        `gorm:"type:float;not null" json:"quantity"`
	Unit            string         `gorm:"size:50;not null" json:"unit"`
	Calories        float64        `gorm:"type:float;not null" json:"calories"`
	Protein         float64        `gorm:"type:float;not null" json:"protein"`
	Carbs           float64        `gorm:"type:float;not null" json:"carbs"`
	Fat             float64        `gorm:"type:float;not null" json:"fat"`
	OptionGroup     int            `gorm:"not null;default:0" json:"option_group"`
	SortOrder       int            `gorm:"not null;default:0" json:"sort_order"`
}

func (f *MealFood) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
