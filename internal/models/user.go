package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleNutritionist = "nutritionist"
	RolePatient      = "patient"
)

// User is a nutritionist or patient account. Account provisioning happens
// outside this service; the backend only authenticates existing rows.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Email         string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash  string         `gorm:"size:255;not null" json:"-"`
	Role          string         `gorm:"size:20;not null" json:"role"`
	ConsultancyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"consultancy_id"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
