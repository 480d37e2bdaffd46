package repository

import (
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// CreateColumn creates a new task column
func (r *GormBoardRepository) CreateColumn(column *models.TaskColumn) error {
	return r.db.Create(column).Error
}

// FindColumnByID finds a task column by ID
func (r *GormBoardRepository) FindColumnByID(id uint64) (*models.TaskColumn, error) {
	var column models.TaskColumn
	if err := r.db.First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// ListColumnsByProject lists a project's columns in board order
func (r *GormBoardRepository) ListColumnsByProject(projectID uint64) ([]models.TaskColumn, error) {
	var columns []models.TaskColumn
	if err := r.db.Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// UpdateColumn updates a task column
func (r *GormBoardRepository) UpdateColumn(column *models.TaskColumn) error {
	return r.db.Save(column).Error
}

// MaxColumnOrder returns the highest sort order in the project and whether
// the project has any columns
func (r *GormBoardRepository) MaxColumnOrder(projectID uint64) (int, bool, error) {
	var count int64
	if err := r.db.Model(&models.TaskColumn{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, false, err
	}
	if count == 0 {
		return 0, false, nil
	}

	var max int
	if err := r.db.Model(&models.TaskColumn{}).
		Where("project_id = ?", projectID).
		Select("MAX(sort_order)").
		Scan(&max).Error; err != nil {
		return 0, false, err
	}
	return max, true, nil
}

// DeleteColumnReassigning reassigns every task on the column to the fallback
// column, then deletes the column row, in one transaction
func (r *GormBoardRepository) DeleteColumnReassigning(columnID, fallbackColumnID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("column_id = ?", columnID).
			Update("column_id", fallbackColumnID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.TaskColumn{}, columnID).Error
	})
}

// FindPriorityByID finds a priority level by ID
func (r *GormBoardRepository) FindPriorityByID(id uint64) (*models.PriorityLevel, error) {
	var priority models.PriorityLevel
	if err := r.db.First(&priority, id).Error; err != nil {
		return nil, err
	}
	return &priority, nil
}

// ListPrioritiesByProject lists a project's priority levels in order
func (r *GormBoardRepository) ListPrioritiesByProject(projectID uint64) ([]models.PriorityLevel, error) {
	var priorities []models.PriorityLevel
	if err := r.db.Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&priorities).Error; err != nil {
		return nil, err
	}
	return priorities, nil
}
