package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrColumnNotFound          = errors.New("column not found")
	ErrColumnLabelRequired     = errors.New("column label is required")
	ErrFallbackColumnRequired  = errors.New("a fallback column is required to delete a column")
	ErrFallbackColumnNotFound  = errors.New("fallback column not found")
	ErrFallbackSameColumn      = errors.New("fallback column must differ from the column being deleted")
	ErrFallbackDifferentBoard  = errors.New("fallback column belongs to a different project")
)

// BoardService maintains referential integrity between tasks and columns.
type BoardService struct {
	boardRepo repository.BoardRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
	}
}

// CreateColumnInput represents parameters to create a board column.
type CreateColumnInput struct {
	ProjectID uint64
	Name      string
	Label     string
	Color     string
	Icon      string
}

// CreateColumn creates a column at the right end of the board. The order
// is max(existing)+1, or 0 on an empty board; the read-then-write window is
// accepted because column creation is a human-paced action.
func (s *BoardService) CreateColumn(input CreateColumnInput) (*models.TaskColumn, error) {
	if strings.TrimSpace(input.Label) == "" {
		return nil, ErrColumnLabelRequired
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input.Label), " ", "_"))
	}

	max, exists, err := s.boardRepo.MaxColumnOrder(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute column order: %w", err)
	}

	order := 0
	if exists {
		order = max + 1
	}

	column := &models.TaskColumn{
		ProjectID: input.ProjectID,
		Name:      name,
		Label:     input.Label,
		Color:     input.Color,
		Icon:      input.Icon,
		Order:     order,
	}

	if err := s.boardRepo.CreateColumn(column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	return column, nil
}

// ListColumns returns a project's columns in board order.
func (s *BoardService) ListColumns(projectID uint64) ([]models.TaskColumn, error) {
	columns, err := s.boardRepo.ListColumnsByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

// UpdateColumnInput holds editable column fields.
type UpdateColumnInput struct {
	Label *string
	Color *string
	Icon  *string
}

// UpdateColumn renames or restyles a column. No side effects on tasks.
func (s *BoardService) UpdateColumn(columnID uint64, input UpdateColumnInput) (*models.TaskColumn, error) {
	column, err := s.boardRepo.FindColumnByID(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to find column: %w", err)
	}

	if input.Label != nil {
		if strings.TrimSpace(*input.Label) == "" {
			return nil, ErrColumnLabelRequired
		}
		column.Label = *input.Label
	}
	if input.Color != nil {
		column.Color = *input.Color
	}
	if input.Icon != nil {
		column.Icon = *input.Icon
	}

	if err := s.boardRepo.UpdateColumn(column); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}

	return column, nil
}

// DeleteColumn reassigns every task on the column to the fallback column
// and then removes the column, in one transaction. The fallback must exist,
// differ from the column being deleted, and belong to the same project.
// Any column can be deleted this way, seeded ones included; protecting the
// defaults is a client concern.
func (s *BoardService) DeleteColumn(columnID uint64, fallbackColumnID *uint64) error {
	if fallbackColumnID == nil {
		return ErrFallbackColumnRequired
	}

	column, err := s.boardRepo.FindColumnByID(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to find column: %w", err)
	}

	if *fallbackColumnID == columnID {
		return ErrFallbackSameColumn
	}

	fallback, err := s.boardRepo.FindColumnByID(*fallbackColumnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFallbackColumnNotFound
		}
		return fmt.Errorf("failed to find fallback column: %w", err)
	}

	if fallback.ProjectID != column.ProjectID {
		return ErrFallbackDifferentBoard
	}

	if err := s.boardRepo.DeleteColumnReassigning(columnID, fallback.ID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}

	return nil
}

// ListPriorities returns a project's priority levels in order.
func (s *BoardService) ListPriorities(projectID uint64) ([]models.PriorityLevel, error) {
	priorities, err := s.boardRepo.ListPrioritiesByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list priorities: %w", err)
	}
	return priorities, nil
}
