package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/services"
	"github.com/teamboard/teamboard-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task on the project's board.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		ColumnID    uint64     `json:"column_id" binding:"required"`
		PriorityID  uint64     `json:"priority_id" binding:"required"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeID  *uint64    `json:"assignee_id"`
		Tags        []string   `json:"tags"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Project:     &project,
		ColumnID:    req.ColumnID,
		PriorityID:  req.PriorityID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		CreatorID:   userID,
		Tags:        req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks returns the project's tasks with filtering and pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	params := utils.GetPaginationParams(c)

	filter := repository.TaskFilter{
		ProjectID: project.ID,
		Page:      params.Page,
		PageSize:  params.Limit,
	}

	if columnIDStr := c.Query("column_id"); columnIDStr != "" {
		columnID, err := strconv.ParseUint(columnIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid column_id")
			return
		}
		filter.ColumnID = &columnID
	}
	if assigneeIDStr := c.Query("assignee_id"); assigneeIDStr != "" {
		assigneeID, err := strconv.ParseUint(assigneeIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		filter.AssigneeID = &assigneeID
	}

	tasks, total, err := h.taskService.ListTasks(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a task. The task is already loaded with relations by
// RequireTaskAccess.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask updates an existing task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title         *string    `json:"title"`
		Description   *string    `json:"description"`
		PriorityID    *uint64    `json:"priority_id"`
		DueDate       *time.Time `json:"due_date"`
		ClearDueDate  bool       `json:"clear_due_date"`
		AssigneeID    *uint64    `json:"assignee_id"`
		ClearAssignee bool       `json:"clear_assignee"`
		Tags          []string   `json:"tags"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		PriorityID:    req.PriorityID,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		Tags:          req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// MoveTask reassigns a task to another column of the same project.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type MoveTaskRequest struct {
		ColumnID uint64 `json:"column_id" binding:"required"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	moved, err := h.taskService.MoveTask(task.ID, req.ColumnID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, moved)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrColumnNotFound):
		apierrors.NotFound(c, "Column not found")
	case errors.Is(err, services.ErrPriorityNotFound):
		apierrors.NotFound(c, "Priority not found")
	case errors.Is(err, services.ErrTitleRequired), errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrColumnOutsideProject):
		apierrors.BadRequest(c, "Column belongs to a different project")
	case errors.Is(err, services.ErrPriorityOutsideProject):
		apierrors.BadRequest(c, "Priority belongs to a different project")
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, "Assignee is not a member of the workspace")
	default:
		apierrors.InternalError(c, "")
	}
}
