package dto

import (
	"time"

	"github.com/teamboard/teamboard-api/internal/models"
)

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	InviteCode  string `json:"invite_code,omitempty"`
}

// WorkspaceWithRoleDTO represents a workspace with the user's role
type WorkspaceWithRoleDTO struct {
	WorkspaceDTO
	Role models.WorkspaceRole `json:"role"`
}

// WorkspaceMemberDTO represents a member in a workspace
type WorkspaceMemberDTO struct {
	User     UserDTO              `json:"user"`
	Role     models.WorkspaceRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// WorkspaceDetailDTO represents detailed workspace information
type WorkspaceDetailDTO struct {
	WorkspaceDTO
	Members  []WorkspaceMemberDTO `json:"members"`
	YourRole models.WorkspaceRole `json:"your_role"`
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(ws models.Workspace, includeInviteCode bool) WorkspaceDTO {
	d := WorkspaceDTO{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		Notes:       ws.Notes,
	}
	if includeInviteCode {
		d.InviteCode = ws.InviteCode
	}
	return d
}

// ToWorkspaceWithRoleDTO converts a membership to DTO with role
func ToWorkspaceWithRoleDTO(member models.WorkspaceMember) WorkspaceWithRoleDTO {
	return WorkspaceWithRoleDTO{
		WorkspaceDTO: ToWorkspaceDTO(member.Workspace, false),
		Role:         member.Role,
	}
}

// ToWorkspaceMemberDTO converts a member to DTO
func ToWorkspaceMemberDTO(member models.WorkspaceMember) WorkspaceMemberDTO {
	return WorkspaceMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToWorkspaceDetailDTO converts a workspace with members to detailed DTO
func ToWorkspaceDetailDTO(ws models.Workspace, members []models.WorkspaceMember, yourRole models.WorkspaceRole) WorkspaceDetailDTO {
	memberDTOs := make([]WorkspaceMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToWorkspaceMemberDTO(member)
	}

	return WorkspaceDetailDTO{
		WorkspaceDTO: ToWorkspaceDTO(ws, true),
		Members:      memberDTOs,
		YourRole:     yourRole,
	}
}
