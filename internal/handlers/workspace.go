package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/dto"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/services"
)

// WorkspaceHandler coordinates workspace HTTP handlers.
type WorkspaceHandler struct {
	wsService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(wsService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		wsService: wsService,
	}
}

// CreateWorkspace creates a new workspace; the creator becomes owner.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateWorkspaceRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Notes       string `json:"notes"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.wsService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
		OwnerID:     userID,
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceDTO(*ws, true))
}

// ListWorkspaces returns all workspaces the user is a member of.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.wsService.ListWorkspacesForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch workspaces")
		return
	}

	workspaces := make([]dto.WorkspaceWithRoleDTO, len(memberships))
	for i, m := range memberships {
		workspaces[i] = dto.ToWorkspaceWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"workspaces": workspaces,
	})
}

// GetWorkspace returns workspace details with members.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	memberInterface, _ := c.Get(constants.ContextKeyWorkspaceMember)
	member := memberInterface.(models.WorkspaceMember)

	_, members, err := h.wsService.GetWorkspaceWithMembers(ws.ID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDetailDTO(ws, members, member.Role))
}

// UpdateWorkspace updates a workspace's fields. Owner only.
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type UpdateWorkspaceRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Notes       *string `json:"notes"`
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.wsService.UpdateWorkspace(ws.ID, services.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*updated, true))
}

// DeleteWorkspace removes a workspace and everything nested under it.
// Owner only.
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	if err := h.wsService.DeleteWorkspace(ws.ID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Workspace deleted",
	})
}

// JoinWorkspace adds the user to a workspace via invite code.
func (h *WorkspaceHandler) JoinWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.wsService.JoinWorkspaceByInvite(userID, req.InviteCode)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*ws, false))
}

// RegenerateInviteCode replaces the workspace invite code. Owner only.
func (h *WorkspaceHandler) RegenerateInviteCode(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	updated, err := h.wsService.RegenerateInviteCode(ws.ID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*updated, true))
}

// RemoveMember removes a member from the workspace. Owner only.
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.wsService.RemoveMember(ws.ID, actorID, targetID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed",
	})
}

func respondWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkspaceNotFound):
		apierrors.NotFound(c, "Workspace not found")
	case errors.Is(err, services.ErrInvalidWorkspaceName):
		apierrors.BadRequest(c, "Workspace name cannot be empty")
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, "Invalid invite code")
	case errors.Is(err, services.ErrAlreadyWorkspaceMember):
		apierrors.Conflict(c, "Already a member of this workspace")
	case errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, "Cannot remove yourself from the workspace")
	case errors.Is(err, services.ErrWorkspaceMemberNotFound):
		apierrors.NotFound(c, "Workspace member not found")
	default:
		apierrors.InternalError(c, "")
	}
}
