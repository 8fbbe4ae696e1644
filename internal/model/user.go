package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string     `gorm:"type:uuid;primary_key" json:"id"`
	Username  string     `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	Email     string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName  string     `gorm:"type:varchar(100)" json:"full_name"`
	Avatar    string     `gorm:"type:text" json:"avatar"`
	Bio       string     `gorm:"type:text" json:"bio"`
	Role      string     `gorm:"type:varchar(10);not null;default:'user'" json:"role"`     // user, admin
	Status    string     `gorm:"type:varchar(10);not null;default:'active'" json:"status"` // active, banned
	LastLogin *time.Time `gorm:"type:timestamp" json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Constants for roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Constants for account status
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBanned reports whether the account is banned
func (u *User) IsBanned() bool {
	return u.Status == StatusBanned
}
