package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID uint64    `gorm:"not null;index" json:"workspace_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(20)" json:"color"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Workspace   Workspace       `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Columns     []TaskColumn    `gorm:"foreignKey:ProjectID" json:"columns,omitempty"`
	Priorities  []PriorityLevel `gorm:"foreignKey:ProjectID" json:"priorities,omitempty"`
	Tasks       []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Links       []ProjectLink   `gorm:"foreignKey:ProjectID" json:"links,omitempty"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectID" json:"project_members,omitempty"`
	Departments []Department    `gorm:"many2many:project_departments" json:"departments,omitempty"`
}

type ProjectLink struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	URL       string    `gorm:"type:varchar(2048);not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	RoleLabel string    `gorm:"type:varchar(100)" json:"role_label"`
	JoinedAt  time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
