package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project in the workspace, seeded with the four
// default columns and priority levels.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
		Notes       string `json:"notes"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		WorkspaceID: ws.ID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Notes:       req.Notes,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects returns the workspace's projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	projects, err := h.projectService.ListProjects(ws.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
	})
}

// GetProject returns a project with its board structure.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	detailed, err := h.projectService.GetProject(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailed)
}

// UpdateProject updates a project's fields.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
		Notes       *string `json:"notes"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.UpdateProject(project.ID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Notes:       req.Notes,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProject removes a project and all of its dependents.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(project.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted",
	})
}

// AddProjectLink attaches a reference link to the project.
func (h *ProjectHandler) AddProjectLink(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddLinkRequest struct {
		Title string `json:"title" binding:"required"`
		URL   string `json:"url" binding:"required,url"`
	}

	var req AddLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.projectService.AddLink(project.ID, req.Title, req.URL)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// RemoveProjectLink deletes a link from the project.
func (h *ProjectHandler) RemoveProjectLink(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	linkID, err := strconv.ParseUint(c.Param("link_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid link ID")
		return
	}

	if err := h.projectService.RemoveLink(project.ID, linkID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Link removed",
	})
}

// AddProjectMember assigns a workspace member to the project.
func (h *ProjectHandler) AddProjectMember(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddMemberRequest struct {
		UserID    uint64 `json:"user_id" binding:"required"`
		RoleLabel string `json:"role_label"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(&project, req.UserID, req.RoleLabel)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveProjectMember removes a user from the project's member list.
func (h *ProjectHandler) RemoveProjectMember(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(project.ID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed",
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrLinkNotFound):
		apierrors.NotFound(c, "Project link not found")
	case errors.Is(err, services.ErrInvalidProjectName):
		apierrors.BadRequest(c, "Project name cannot be empty")
	case errors.Is(err, services.ErrNotWorkspaceMember):
		apierrors.Forbidden(c, "You are not a member of this workspace")
	default:
		apierrors.InternalError(c, "")
	}
}
