package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is the relation row behind the image like toggle. The unique index on
// (user_id, image_id) is what keeps concurrent toggles from producing a
// second row: a lost race on insert fails with a duplicate-key error.
type Like struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_likes_user_image,unique" json:"user_id"`
	ImageID   string    `gorm:"type:uuid;not null;index:idx_likes_user_image,unique;index:idx_likes_image" json:"image_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Image Image `gorm:"foreignKey:ImageID;references:ID" json:"image,omitempty"`
}

// BeforeCreate hook to generate UUID
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Like) TableName() string {
	return "likes"
}
