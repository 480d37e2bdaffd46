package models

import (
	"time"

	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(255);not null" json:"display_name"`
	Initials     string         `gorm:"type:varchar(8)" json:"initials"`
	RoleLabel    string         `gorm:"type:varchar(100)" json:"role_label"`
	DepartmentID *uint64        `json:"department_id"`
	Status       UserStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Department *Department       `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Workspaces []WorkspaceMember `gorm:"foreignKey:UserID" json:"-"`
}
