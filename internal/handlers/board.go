package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/services"
)

// BoardHandler coordinates column and priority HTTP handlers.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// CreateColumn appends a new column at the right end of the board.
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateColumnRequest struct {
		Name  string `json:"name"`
		Label string `json:"label" binding:"required"`
		Color string `json:"color"`
		Icon  string `json:"icon"`
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.boardService.CreateColumn(services.CreateColumnInput{
		ProjectID: project.ID,
		Name:      req.Name,
		Label:     req.Label,
		Color:     req.Color,
		Icon:      req.Icon,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, column)
}

// ListColumns returns the project's columns in board order.
func (h *BoardHandler) ListColumns(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	columns, err := h.boardService.ListColumns(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch columns")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
	})
}

// UpdateColumn renames or restyles a column; tasks are untouched.
func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	column, ok := middleware.GetColumn(c)
	if !ok {
		apierrors.InternalError(c, "Column not found in context")
		return
	}

	type UpdateColumnRequest struct {
		Label *string `json:"label"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.boardService.UpdateColumn(column.ID, services.UpdateColumnInput{
		Label: req.Label,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteColumn reassigns the column's tasks to the supplied fallback column
// and removes the column.
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	column, ok := middleware.GetColumn(c)
	if !ok {
		apierrors.InternalError(c, "Column not found in context")
		return
	}

	type DeleteColumnRequest struct {
		MoveTasksToColumnID *uint64 `json:"move_tasks_to_column_id"`
	}

	// An absent body is allowed; the service reports the missing fallback
	var req DeleteColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.boardService.DeleteColumn(column.ID, req.MoveTasksToColumnID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Column deleted",
	})
}

// ListPriorities returns the project's priority levels in order.
func (h *BoardHandler) ListPriorities(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	priorities, err := h.boardService.ListPriorities(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch priorities")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"priorities": priorities,
	})
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrColumnNotFound):
		apierrors.NotFound(c, "Column not found")
	case errors.Is(err, services.ErrColumnLabelRequired):
		apierrors.BadRequest(c, "Column label is required")
	case errors.Is(err, services.ErrFallbackColumnRequired):
		apierrors.BadRequest(c, "A fallback column is required")
	case errors.Is(err, services.ErrFallbackColumnNotFound):
		apierrors.NotFound(c, "Fallback column not found")
	case errors.Is(err, services.ErrFallbackSameColumn):
		apierrors.BadRequest(c, "Fallback column must differ from the deleted column")
	case errors.Is(err, services.ErrFallbackDifferentBoard):
		apierrors.BadRequest(c, "Fallback column belongs to a different project")
	default:
		apierrors.InternalError(c, "")
	}
}
