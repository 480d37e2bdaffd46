package repository

import (
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithDefaults creates a project and seeds its columns and priority
// levels in a single transaction
func (r *GormProjectRepository) CreateWithDefaults(project *models.Project, columns []models.TaskColumn, priorities []models.PriorityLevel) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		for i := range columns {
			columns[i].ProjectID = project.ID
		}
		if err := tx.Create(&columns).Error; err != nil {
			return err
		}

		for i := range priorities {
			priorities[i].ProjectID = project.ID
		}
		return tx.Create(&priorities).Error
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListByWorkspace lists all projects in a workspace
func (r *GormProjectRepository) ListByWorkspace(workspaceID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and its dependents in fixed dependency order,
// all within one transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.TaskColumn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.PriorityLevel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddLink adds a link to a project
func (r *GormProjectRepository) AddLink(link *models.ProjectLink) error {
	return r.db.Create(link).Error
}

// RemoveLink removes a project link
func (r *GormProjectRepository) RemoveLink(linkID uint64) error {
	return r.db.Delete(&models.ProjectLink{}, linkID).Error
}

// FindLink finds a project link by ID
func (r *GormProjectRepository) FindLink(linkID uint64) (*models.ProjectLink, error) {
	var link models.ProjectLink
	if err := r.db.First(&link, linkID).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}
