package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound          = errors.New("workspace not found")
	ErrInvalidWorkspaceName       = errors.New("workspace name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyWorkspaceMember     = errors.New("user is already a member of this workspace")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the workspace")
	ErrWorkspaceMemberNotFound    = errors.New("workspace member not found")
)

// WorkspaceService provides business logic for workspace operations.
type WorkspaceService struct {
	wsRepo repository.WorkspaceRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(wsRepo repository.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{
		wsRepo: wsRepo,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description string
	Notes       string
	OwnerID     uint64
}

// CreateWorkspace creates a new workspace; the creator becomes its first
// member with role owner, in the same transaction.
func (s *WorkspaceService) CreateWorkspace(input CreateWorkspaceInput) (*models.Workspace, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidWorkspaceName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	ws := &models.Workspace{
		Name:        input.Name,
		Description: input.Description,
		Notes:       input.Notes,
		InviteCode:  inviteCode,
	}

	member := &models.WorkspaceMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.wsRepo.CreateWithOwner(ws, member); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return ws, nil
}

// ListWorkspacesForUser returns workspaces the user belongs to.
func (s *WorkspaceService) ListWorkspacesForUser(userID uint64) ([]models.WorkspaceMember, error) {
	memberships, err := s.wsRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return memberships, nil
}

// GetWorkspaceWithMembers returns a workspace and all of its members.
func (s *WorkspaceService) GetWorkspaceWithMembers(wsID uint64) (*models.Workspace, []models.WorkspaceMember, error) {
	ws, err := s.wsRepo.FindByID(wsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrWorkspaceNotFound
		}
		return nil, nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	members, err := s.wsRepo.ListMembers(wsID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workspace members: %w", err)
	}

	return ws, members, nil
}

// UpdateWorkspaceInput holds editable workspace fields.
type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
	Notes       *string
}

// UpdateWorkspace updates a workspace's fields.
func (s *WorkspaceService) UpdateWorkspace(wsID uint64, input UpdateWorkspaceInput) (*models.Workspace, error) {
	ws, err := s.wsRepo.FindByID(wsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidWorkspaceName
		}
		ws.Name = *input.Name
	}
	if input.Description != nil {
		ws.Description = *input.Description
	}
	if input.Notes != nil {
		ws.Notes = *input.Notes
	}

	if err := s.wsRepo.Update(ws); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return ws, nil
}

// DeleteWorkspace removes a workspace and everything under it.
func (s *WorkspaceService) DeleteWorkspace(wsID uint64) error {
	if _, err := s.wsRepo.FindByID(wsID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	if err := s.wsRepo.Delete(wsID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}

// JoinWorkspaceByInvite adds a user to a workspace via invite code.
func (s *WorkspaceService) JoinWorkspaceByInvite(userID uint64, inviteCode string) (*models.Workspace, error) {
	ws, err := s.wsRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find workspace by invite code: %w", err)
	}

	if _, err := s.wsRepo.FindMember(ws.ID, userID); err == nil {
		return nil, ErrAlreadyWorkspaceMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      userID,
		Role:        models.RoleMember,
		JoinedAt:    time.Now(),
	}

	if err := s.wsRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to workspace: %w", err)
	}

	return ws, nil
}

// RegenerateInviteCode generates a new invite code for the workspace.
func (s *WorkspaceService) RegenerateInviteCode(wsID uint64) (*models.Workspace, error) {
	ws, err := s.wsRepo.FindByID(wsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	ws.InviteCode = code
	if err := s.wsRepo.Update(ws); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return ws, nil
}

// RemoveMember removes a member from the workspace.
func (s *WorkspaceService) RemoveMember(wsID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.wsRepo.FindMember(wsID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceMemberNotFound
		}
		return fmt.Errorf("failed to find workspace member: %w", err)
	}

	if err := s.wsRepo.RemoveMember(wsID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
