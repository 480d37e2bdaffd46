package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrColumnOutsideProject   = errors.New("column belongs to a different project")
	ErrPriorityNotFound       = errors.New("priority not found")
	ErrPriorityOutsideProject = errors.New("priority belongs to a different project")
	ErrInvalidAssignee        = errors.New("assignee is not a member of the workspace")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo  repository.TaskRepository
	boardRepo repository.BoardRepository
	wsRepo    repository.WorkspaceRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, boardRepo repository.BoardRepository, wsRepo repository.WorkspaceRepository) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		boardRepo: boardRepo,
		wsRepo:    wsRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Project     *models.Project
	ColumnID    uint64
	PriorityID  uint64
	Title       string
	Description string
	DueDate     *time.Time
	AssigneeID  *uint64
	CreatorID   uint64
	Tags        []string
}

// CreateTask creates a task after checking that the column and priority
// belong to the task's project and that any assignee is a workspace member.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	column, err := s.boardRepo.FindColumnByID(input.ColumnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to find column: %w", err)
	}
	if column.ProjectID != input.Project.ID {
		return nil, ErrColumnOutsideProject
	}

	priority, err := s.boardRepo.FindPriorityByID(input.PriorityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPriorityNotFound
		}
		return nil, fmt.Errorf("failed to find priority: %w", err)
	}
	if priority.ProjectID != input.Project.ID {
		return nil, ErrPriorityOutsideProject
	}

	if input.AssigneeID != nil {
		if _, err := s.wsRepo.FindMember(input.Project.WorkspaceID, *input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidAssignee
			}
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
	}

	task := &models.Task{
		ProjectID:   input.Project.ID,
		ColumnID:    input.ColumnID,
		PriorityID:  input.PriorityID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(input.Tags) > 0 {
		if err := s.taskRepo.ReplaceTags(task, input.Tags); err != nil {
			return nil, fmt.Errorf("failed to attach tags: %w", err)
		}
	}

	return s.taskRepo.FindByID(task.ID, "Column", "Priority", "Assignee", "Tags")
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Column", "Priority", "Assignee", "Creator", "Tags")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasks returns tasks for a project with filtering and pagination.
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// UpdateTaskInput represents input for updating a task.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	PriorityID    *uint64
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *uint64
	ClearAssignee bool
	Tags          []string
}

// UpdateTask updates an existing task.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.PriorityID != nil {
		priority, err := s.boardRepo.FindPriorityByID(*input.PriorityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPriorityNotFound
			}
			return nil, fmt.Errorf("failed to find priority: %w", err)
		}
		if priority.ProjectID != task.ProjectID {
			return nil, ErrPriorityOutsideProject
		}
		task.PriorityID = *input.PriorityID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.Tags != nil {
		if err := s.taskRepo.ReplaceTags(task, input.Tags); err != nil {
			return nil, fmt.Errorf("failed to update tags: %w", err)
		}
	}

	return s.taskRepo.FindByID(task.ID, "Column", "Priority", "Assignee", "Tags")
}

// MoveTask reassigns a task to another column of the same project. This is
// the drag-and-drop transition: a single-field update, no other side effect.
func (s *TaskService) MoveTask(taskID, targetColumnID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	column, err := s.boardRepo.FindColumnByID(targetColumnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to find column: %w", err)
	}

	if column.ProjectID != task.ProjectID {
		return nil, ErrColumnOutsideProject
	}

	if err := s.taskRepo.UpdateColumn(task.ID, column.ID); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Column", "Priority", "Assignee", "Tags")
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
