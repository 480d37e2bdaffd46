package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWorkspaceRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.ProjectLink{},
		&models.ProjectMember{},
		&models.TaskColumn{},
		&models.PriorityLevel{},
		&models.Task{},
		&models.Tag{},
		&models.FinancialAccount{},
		&models.TransactionCategory{},
		&models.FinancialTransaction{},
		&models.Budget{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// Builds a workspace with one of everything nested under it and returns the
// ids needed for the cascade assertions.
func seedFullWorkspace(t *testing.T, db *gorm.DB) (wsID uint64, userID uint64) {
	t.Helper()

	user := &models.User{Email: "owner@example.com", PasswordHash: "hashed", DisplayName: "Owner"}
	require.NoError(t, db.Create(user).Error)

	ws := &models.Workspace{Name: "Full WS", InviteCode: "FULL-AAAA-BBBB"}
	require.NoError(t, db.Create(ws).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{
		WorkspaceID: ws.ID, UserID: user.ID, Role: models.RoleOwner, JoinedAt: time.Now(),
	}).Error)

	project := &models.Project{WorkspaceID: ws.ID, Name: "Obra"}
	require.NoError(t, db.Create(project).Error)
	column := &models.TaskColumn{ProjectID: project.ID, Name: "pendiente", Label: "Pendiente"}
	require.NoError(t, db.Create(column).Error)
	priority := &models.PriorityLevel{ProjectID: project.ID, Label: "alta"}
	require.NoError(t, db.Create(priority).Error)
	task := &models.Task{
		ProjectID: project.ID, ColumnID: column.ID, PriorityID: priority.ID,
		Title: "Task", CreatorID: user.ID,
	}
	require.NoError(t, db.Create(task).Error)
	tag := &models.Tag{Name: "urgente"}
	require.NoError(t, db.Create(tag).Error)
	require.NoError(t, db.Model(task).Association("Tags").Append(tag))
	require.NoError(t, db.Create(&models.ProjectLink{ProjectID: project.ID, Title: "Drive", URL: "https://example.com"}).Error)
	require.NoError(t, db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: user.ID, JoinedAt: time.Now()}).Error)

	account := &models.FinancialAccount{WorkspaceID: ws.ID, Name: "Caja", Currency: "ARS"}
	require.NoError(t, db.Create(account).Error)
	category := &models.TransactionCategory{WorkspaceID: ws.ID, Name: "Cuotas", Type: models.CategoryTypeIncome}
	require.NoError(t, db.Create(category).Error)
	require.NoError(t, db.Create(&models.FinancialTransaction{
		WorkspaceID: ws.ID, AccountID: account.ID, CategoryID: category.ID,
		CreatedByID: user.ID, Amount: decimal.RequireFromString("10"), Date: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.Budget{
		WorkspaceID: ws.ID, Name: "Obra 2026", Amount: decimal.RequireFromString("100"),
		Status: models.BudgetStatusPending,
	}).Error)

	return ws.ID, user.ID
}

func TestGormWorkspaceRepository_Delete_CascadesEverything(t *testing.T) {
	db := setupWorkspaceRepoTestDB(t)
	repo := NewWorkspaceRepository(db)

	wsID, userID := seedFullWorkspace(t, db)

	// A second workspace for the same user must survive untouched
	survivor := &models.Workspace{Name: "Survivor", InviteCode: "SRV1-AAAA-BBBB"}
	require.NoError(t, db.Create(survivor).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{
		WorkspaceID: survivor.ID, UserID: userID, Role: models.RoleOwner, JoinedAt: time.Now(),
	}).Error)
	survivorAccount := &models.FinancialAccount{WorkspaceID: survivor.ID, Name: "Banco", Currency: "ARS"}
	require.NoError(t, db.Create(survivorAccount).Error)

	require.NoError(t, repo.Delete(wsID))

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"members", &models.WorkspaceMember{}},
		{"projects", &models.Project{}},
		{"accounts", &models.FinancialAccount{}},
		{"categories", &models.TransactionCategory{}},
		{"transactions", &models.FinancialTransaction{}},
		{"budgets", &models.Budget{}},
	} {
		var count int64
		require.NoError(t, db.Model(probe.model).
			Where("workspace_id = ?", wsID).
			Count(&count).Error)
		require.Zero(t, count, "expected no %s left for the deleted workspace", probe.name)
	}

	var tasks, columns, priorities, tagLinks int64
	require.NoError(t, db.Model(&models.Task{}).Count(&tasks).Error)
	require.NoError(t, db.Model(&models.TaskColumn{}).Count(&columns).Error)
	require.NoError(t, db.Model(&models.PriorityLevel{}).Count(&priorities).Error)
	require.NoError(t, db.Table("task_tags").Count(&tagLinks).Error)
	require.Zero(t, tasks)
	require.Zero(t, columns)
	require.Zero(t, priorities)
	require.Zero(t, tagLinks)

	err := db.First(&models.Workspace{}, wsID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The user row and the sibling workspace are not part of the cascade
	require.NoError(t, db.First(&models.User{}, userID).Error)
	require.NoError(t, db.First(&models.Workspace{}, survivor.ID).Error)
	require.NoError(t, db.First(&models.FinancialAccount{}, survivorAccount.ID).Error)
}

func TestGormWorkspaceRepository_Delete_RollsBackOnMidCascadeFailure(t *testing.T) {
	db, mock := setupMockedGormDB(t)
	repo := NewWorkspaceRepository(db)

	deleteErr := errors.New("lock wait timeout")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `projects`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("DELETE FROM `financial_transactions`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `financial_accounts`").
		WillReturnError(deleteErr)
	mock.ExpectRollback()

	err := repo.Delete(7)
	require.ErrorIs(t, err, deleteErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWorkspaceRepository_CreateWithOwner(t *testing.T) {
	db := setupWorkspaceRepoTestDB(t)
	repo := NewWorkspaceRepository(db)

	user := &models.User{Email: "owner@example.com", PasswordHash: "hashed", DisplayName: "Owner"}
	require.NoError(t, db.Create(user).Error)

	ws := &models.Workspace{Name: "Atomic WS", InviteCode: "ATM1-AAAA-BBBB"}
	member := &models.WorkspaceMember{UserID: user.ID, Role: models.RoleOwner, JoinedAt: time.Now()}

	require.NoError(t, repo.CreateWithOwner(ws, member))
	require.Equal(t, ws.ID, member.WorkspaceID)

	found, err := repo.FindMember(ws.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, found.Role)
}
