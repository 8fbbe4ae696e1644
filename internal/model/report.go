package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Report struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	TargetType  string     `gorm:"type:varchar(10);not null;index:idx_reports_target" json:"target_type"` // user, image
	TargetID    string     `gorm:"type:uuid;not null;index:idx_reports_target" json:"target_id"`
	ReportedBy  string     `gorm:"type:uuid;not null;index" json:"reported_by"`
	Reason      string     `gorm:"type:varchar(20);not null" json:"reason"`
	Description string     `gorm:"type:varchar(1000)" json:"description"`
	Status      string     `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	ReviewedBy  *string    `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `gorm:"type:timestamp" json:"reviewed_at,omitempty"`
	AdminNotes  string     `gorm:"type:varchar(500)" json:"admin_notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Reporter User  `gorm:"foreignKey:ReportedBy;references:ID" json:"reporter,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy;references:ID" json:"reviewer,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Report) TableName() string {
	return "reports"
}

// Constants for report target types
const (
	ReportTargetUser  = "user"
	ReportTargetImage = "image"
)

// Constants for report status
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Constants for report reasons
const (
	ReportReasonSpam          = "spam"
	ReportReasonInappropriate = "inappropriate"
	ReportReasonHarassment    = "harassment"
	ReportReasonCopyright     = "copyright"
	ReportReasonFake          = "fake"
	ReportReasonViolence      = "violence"
	ReportReasonOther         = "other"
)

// IsOpen reports whether the report still blocks a new report on the same
// target by the same reporter
func (r *Report) IsOpen() bool {
	return r.Status == ReportStatusPending || r.Status == ReportStatusReviewed
}

// IsTerminal reports whether the status permits no further transition
func (r *Report) IsTerminal() bool {
	return r.Status == ReportStatusResolved || r.Status == ReportStatusRejected
}
