package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceToken routes push notifications. A token string is live for at most
// one user at a time: registering it for another account deactivates the
// previous owner's row instead of deleting it.
type DeviceToken struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_device_tokens_user_platform,unique" json:"user_id"`
	Token     string    `gorm:"type:text;not null;index" json:"-"`
	Platform  string    `gorm:"type:varchar(10);not null;index:idx_device_tokens_user_platform,unique" json:"platform"` // ios, android, web
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	LastUsed  time.Time `gorm:"not null" json:"last_used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (d *DeviceToken) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (DeviceToken) TableName() string {
	return "device_tokens"
}

// Platform constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)
