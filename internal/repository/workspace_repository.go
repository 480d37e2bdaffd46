package repository

import (
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its owner membership atomically
func (r *GormWorkspaceRepository) CreateWithOwner(ws *models.Workspace, member *models.WorkspaceMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}

		member.WorkspaceID = ws.ID
		return tx.Create(member).Error
	})
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindByInviteCode finds a workspace by invite code
func (r *GormWorkspaceRepository) FindByInviteCode(code string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("invite_code = ?", code).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// Update updates a workspace
func (r *GormWorkspaceRepository) Update(ws *models.Workspace) error {
	return r.db.Save(ws).Error
}

// Delete removes a workspace and all dependent data in a single transaction.
// Project-scoped rows go first, then projects, then the finance entities
// scoped to the workspace, then memberships and the workspace row itself.
func (r *GormWorkspaceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint64
		if err := tx.Model(&models.Project{}).
			Where("workspace_id = ?", id).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			if err := tx.Exec("DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE project_id IN ?)", projectIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.TaskColumn{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.PriorityLevel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectLink{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectMember{}).Error; err != nil {
				return err
			}
			if err := tx.Where("workspace_id = ?", id).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.FinancialTransaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&models.FinancialAccount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&models.TransactionCategory{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Workspace{}, id).Error
	})
}

// AddMember adds a member to a workspace
func (r *GormWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a workspace
func (r *GormWorkspaceRepository) RemoveMember(workspaceID, userID uint64) error {
	return r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.WorkspaceMember{}).Error
}

// FindMember finds a specific workspace member
func (r *GormWorkspaceRepository) FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	if err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all workspaces a user is a member of
func (r *GormWorkspaceRepository) ListMembersByUserID(userID uint64) ([]models.WorkspaceMember, error) {
	var memberships []models.WorkspaceMember
	if err := r.db.Preload("Workspace").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a workspace
func (r *GormWorkspaceRepository) ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	if err := r.db.Preload("User").
		Where("workspace_id = ?", workspaceID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
