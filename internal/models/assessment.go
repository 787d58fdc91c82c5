package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sex values accepted by anthropometric assessments.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// AnthropometricAssessment is a point-in-time measurement of a patient.
// Assessments are immutable once created; a correction is a new assessment.
type AnthropometricAssessment struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	PatientID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	NutritionistID uuid.UUID      `gorm:"type:uuid;not null" json:"nutritionist_id"`
	Date           time.Time      `gorm:"not null;index" json:"date"`
	WeightKg       float64        `gorm:"type:float;not null" json:"weight_kg"`
	HeightCm       float64        `gorm:"type:float;not null" json:"height_cm"`
	AgeYears       int            `gorm:"not null" json:"age_years"`
	Sex            string         `gorm:"size:10;not null" json:"sex"`
	BodyFatPercent *float64       `gorm:"type:float" json:"body_fat_percent,omitempty"`
	MuscleMassKg   *float64       `gorm:"type:float" json:"muscle_mass_kg,omitempty"`
}

func (a *AnthropometricAssessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
