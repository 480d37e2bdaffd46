package models

import "time"

type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "owner"
	RoleMember WorkspaceRole = "member"
)

// WorkspaceMember is the sole authorization primitive: a user may act on a
// workspace and everything nested under it iff a row exists for the pair.
type WorkspaceMember struct {
	WorkspaceID uint64        `gorm:"primarykey" json:"workspace_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
