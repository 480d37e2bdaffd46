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
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrNotWorkspaceMember = errors.New("user is not a member of the workspace")
	ErrLinkNotFound       = errors.New("project link not found")
)

// defaultColumnSeeds are the four board columns every new project starts
// with, ordered 0-3.
func defaultColumnSeeds() []models.TaskColumn {
	return []models.TaskColumn{
		{Name: "pendiente", Label: "Pendiente", Color: "#94a3b8", Icon: "circle", Order: 0},
		{Name: "en_progreso", Label: "En progreso", Color: "#3b82f6", Icon: "clock", Order: 1},
		{Name: "revision", Label: "Revisión", Color: "#f59e0b", Icon: "eye", Order: 2},
		{Name: "completada", Label: "Completada", Color: "#22c55e", Icon: "check", Order: 3},
	}
}

// defaultPrioritySeeds are the four priority levels every new project
// starts with, ordered 0-3.
func defaultPrioritySeeds() []models.PriorityLevel {
	return []models.PriorityLevel{
		{Label: "urgente", Color: "#fee2e2", DotColor: "#ef4444", Order: 0},
		{Label: "alta", Color: "#ffedd5", DotColor: "#f97316", Order: 1},
		{Label: "media", Color: "#fef9c3", DotColor: "#eab308", Order: 2},
		{Label: "baja", Color: "#dcfce7", DotColor: "#22c55e", Order: 3},
	}
}

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	wsRepo      repository.WorkspaceRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, wsRepo repository.WorkspaceRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		wsRepo:      wsRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	WorkspaceID uint64
	ActorID     uint64
	Name        string
	Description string
	Color       string
	Notes       string
}

// CreateProject creates a project with its four default columns and four
// default priority levels; the seeding is transactional with the creation.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	if err := s.ensureWorkspaceMember(input.WorkspaceID, input.ActorID); err != nil {
		return nil, err
	}

	project := &models.Project{
		WorkspaceID: input.WorkspaceID,
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Notes:       input.Notes,
	}

	if err := s.projectRepo.CreateWithDefaults(project, defaultColumnSeeds(), defaultPrioritySeeds()); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Columns", "Priorities")
}

// GetProject returns a project with its board structure.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Columns", "Priorities", "Links", "Members", "Members.User", "Departments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// ListProjects returns all projects in a workspace.
func (s *ProjectService) ListProjects(workspaceID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectInput holds editable project fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
	Notes       *string
}

// UpdateProject updates a project's fields.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Color != nil {
		project.Color = *input.Color
	}
	if input.Notes != nil {
		project.Notes = *input.Notes
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and all of its dependents.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddLink attaches a reference link to a project.
func (s *ProjectService) AddLink(projectID uint64, title, url string) (*models.ProjectLink, error) {
	link := &models.ProjectLink{
		ProjectID: projectID,
		Title:     title,
		URL:       url,
	}

	if err := s.projectRepo.AddLink(link); err != nil {
		return nil, fmt.Errorf("failed to add project link: %w", err)
	}

	return link, nil
}

// RemoveLink deletes a project link. The link must belong to the project.
func (s *ProjectService) RemoveLink(projectID, linkID uint64) error {
	link, err := s.projectRepo.FindLink(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to find project link: %w", err)
	}

	if link.ProjectID != projectID {
		return ErrLinkNotFound
	}

	if err := s.projectRepo.RemoveLink(linkID); err != nil {
		return fmt.Errorf("failed to remove project link: %w", err)
	}

	return nil
}

// AddMember assigns a workspace member to a project with a role label.
func (s *ProjectService) AddMember(project *models.Project, userID uint64, roleLabel string) (*models.ProjectMember, error) {
	if err := s.ensureWorkspaceMember(project.WorkspaceID, userID); err != nil {
		return nil, err
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
		RoleLabel: roleLabel,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a user from a project's member list.
func (s *ProjectService) RemoveMember(projectID, userID uint64) error {
	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	return nil
}

// ensureWorkspaceMember verifies that a user belongs to a workspace.
func (s *ProjectService) ensureWorkspaceMember(wsID, userID uint64) error {
	_, err := s.wsRepo.FindMember(wsID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotWorkspaceMember
		}
		return fmt.Errorf("failed to verify workspace membership: %w", err)
	}
	return nil
}
