package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Image struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"type:varchar(200)" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Filename     string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	PublicID     string    `gorm:"type:varchar(255)" json:"-"` // cloudinary public id, needed for deletion
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"type:varchar(50);not null" json:"mime_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CategoryID   *string   `gorm:"type:uuid;index" json:"category_id,omitempty"`
	UploadedBy   string    `gorm:"type:uuid;not null;index:idx_images_uploader" json:"uploaded_by"`
	Tags         string    `gorm:"type:text" json:"tags"` // comma separated
	Views        int64     `gorm:"not null;default:0" json:"views"`
	Downloads    int64     `gorm:"not null;default:0" json:"downloads"`
	LikesCount   int64     `gorm:"not null;default:0" json:"likes_count"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsFeatured   bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Uploader User      `gorm:"foreignKey:UploadedBy;references:ID" json:"uploader,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Image) TableName() string {
	return "images"
}
