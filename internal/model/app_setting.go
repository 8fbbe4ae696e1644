package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppSetting struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	IsPublic    bool      `gorm:"not null;default:true" json:"is_public"`
	UpdatedBy   *string   `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (s *AppSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (AppSetting) TableName() string {
	return "app_settings"
}
