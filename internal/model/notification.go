package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string     `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	SenderID  *string    `gorm:"type:uuid;index" json:"sender_id,omitempty"`
	Type      string     `gorm:"type:varchar(30);not null" json:"type"` // like, report_update, image_featured, system
	Title     string     `gorm:"type:varchar(100);not null" json:"title"`
	Message   string     `gorm:"type:varchar(500)" json:"message"`
	ImageID   *string    `gorm:"type:uuid;index" json:"image_id,omitempty"`
	ReportID  *string    `gorm:"type:uuid" json:"report_id,omitempty"`
	ActionURL string     `gorm:"type:text" json:"action_url"`
	IsRead    bool       `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	ReadAt    *time.Time `gorm:"type:timestamp" json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User   User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Sender *User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
}

// BeforeCreate hook to generate UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}

// Notification type constants
const (
	NotificationTypeLike          = "like"
	NotificationTypeReportUpdate  = "report_update"
	NotificationTypeImageFeatured = "image_featured"
	NotificationTypeSystem        = "system"
)
