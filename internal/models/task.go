package models

import (
	"time"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	ProjectID   uint64     `gorm:"not null;index" json:"project_id"`
	ColumnID    uint64     `gorm:"not null;index" json:"column_id"`
	PriorityID  uint64     `gorm:"not null" json:"priority_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uint64    `json:"assignee_id"`
	CreatorID   uint64     `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Project  Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Column   TaskColumn    `gorm:"foreignKey:ColumnID" json:"column,omitempty"`
	Priority PriorityLevel `gorm:"foreignKey:PriorityID" json:"priority,omitempty"`
	Assignee *User         `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Tags     []Tag         `gorm:"many2many:task_tags" json:"tags,omitempty"`
}

// Tag is a workspace-agnostic shared string, created on demand.
type Tag struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
