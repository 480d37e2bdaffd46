package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type taskTestEnv struct {
	db       *gorm.DB
	service  *TaskService
	ws       *models.Workspace
	project  *models.Project
	column   *models.TaskColumn
	priority *models.PriorityLevel
	user     *models.User
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.TaskColumn{},
		&models.PriorityLevel{},
		&models.Task{},
		&models.Tag{},
	)
	require.NoError(t, err)

	user := &models.User{Email: "worker@example.com", PasswordHash: "hashed", DisplayName: "Worker"}
	require.NoError(t, db.Create(user).Error)

	ws := &models.Workspace{Name: "Task WS", InviteCode: "TSK1-AAAA-BBBB"}
	require.NoError(t, db.Create(ws).Error)

	member := &models.WorkspaceMember{WorkspaceID: ws.ID, UserID: user.ID, Role: models.RoleOwner, JoinedAt: time.Now()}
	require.NoError(t, db.Create(member).Error)

	project := &models.Project{WorkspaceID: ws.ID, Name: "Task Project"}
	require.NoError(t, db.Create(project).Error)

	column := &models.TaskColumn{ProjectID: project.ID, Name: "pendiente", Label: "Pendiente", Order: 0}
	require.NoError(t, db.Create(column).Error)

	priority := &models.PriorityLevel{ProjectID: project.ID, Label: "media", Order: 2}
	require.NoError(t, db.Create(priority).Error)

	service := NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewBoardRepository(db),
		repository.NewWorkspaceRepository(db),
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return taskTestEnv{
		db:       db,
		service:  service,
		ws:       ws,
		project:  project,
		column:   column,
		priority: priority,
		user:     user,
	}
}

func (env taskTestEnv) createTask(t *testing.T, title string) *models.Task {
	t.Helper()

	task, err := env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   env.column.ID,
		PriorityID: env.priority.ID,
		Title:      title,
		CreatorID:  env.user.ID,
	})
	require.NoError(t, err)
	return task
}

func TestTaskService_CreateTask_WithTags(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   env.column.ID,
		PriorityID: env.priority.ID,
		Title:      "Pintar fachada",
		CreatorID:  env.user.ID,
		Tags:       []string{"obra", "urgente"},
	})
	require.NoError(t, err)
	require.Len(t, task.Tags, 2)

	// Reusing a tag name must not duplicate the tag row
	_, err = env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   env.column.ID,
		PriorityID: env.priority.ID,
		Title:      "Pintar interior",
		CreatorID:  env.user.ID,
		Tags:       []string{"obra"},
	})
	require.NoError(t, err)

	var tagCount int64
	require.NoError(t, env.db.Model(&models.Tag{}).Where("name = ?", "obra").Count(&tagCount).Error)
	require.EqualValues(t, 1, tagCount)
}

func TestTaskService_CreateTask_RejectsForeignColumn(t *testing.T) {
	env := setupTaskTestEnv(t)

	otherProject := &models.Project{WorkspaceID: env.ws.ID, Name: "Other"}
	require.NoError(t, env.db.Create(otherProject).Error)

	foreignColumn := &models.TaskColumn{ProjectID: otherProject.ID, Name: "pendiente", Label: "Pendiente"}
	require.NoError(t, env.db.Create(foreignColumn).Error)

	_, err := env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   foreignColumn.ID,
		PriorityID: env.priority.ID,
		Title:      "Task",
		CreatorID:  env.user.ID,
	})
	require.ErrorIs(t, err, ErrColumnOutsideProject)
}

func TestTaskService_CreateTask_RejectsMissingPriority(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   env.column.ID,
		PriorityID: env.priority.ID + 100,
		Title:      "Task",
		CreatorID:  env.user.ID,
	})
	require.ErrorIs(t, err, ErrPriorityNotFound)
}

func TestTaskService_UpdateTask_RejectsMissingPriority(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, "Replantear")

	missing := env.priority.ID + 100
	_, err := env.service.UpdateTask(task.ID, UpdateTaskInput{
		PriorityID: &missing,
	})
	require.ErrorIs(t, err, ErrPriorityNotFound)

	found, err := env.service.GetTask(task.ID)
	require.NoError(t, err)
	require.Equal(t, env.priority.ID, found.PriorityID)
}

func TestTaskService_CreateTask_RejectsNonMemberAssignee(t *testing.T) {
	env := setupTaskTestEnv(t)

	outsider := &models.User{Email: "outsider@example.com", PasswordHash: "hashed", DisplayName: "Outsider"}
	require.NoError(t, env.db.Create(outsider).Error)

	_, err := env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   env.column.ID,
		PriorityID: env.priority.ID,
		Title:      "Task",
		CreatorID:  env.user.ID,
		AssigneeID: &outsider.ID,
	})
	require.ErrorIs(t, err, ErrInvalidAssignee)
}

func TestTaskService_MoveTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, "Mover")

	target := &models.TaskColumn{ProjectID: env.project.ID, Name: "en_progreso", Label: "En progreso", Order: 1}
	require.NoError(t, env.db.Create(target).Error)

	moved, err := env.service.MoveTask(task.ID, target.ID)
	require.NoError(t, err)
	require.Equal(t, target.ID, moved.ColumnID)
}

func TestTaskService_MoveTask_RejectsColumnFromOtherProject(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, "No mover")

	otherProject := &models.Project{WorkspaceID: env.ws.ID, Name: "Other"}
	require.NoError(t, env.db.Create(otherProject).Error)

	foreignColumn := &models.TaskColumn{ProjectID: otherProject.ID, Name: "pendiente", Label: "Pendiente"}
	require.NoError(t, env.db.Create(foreignColumn).Error)

	_, err := env.service.MoveTask(task.ID, foreignColumn.ID)
	require.ErrorIs(t, err, ErrColumnOutsideProject)

	var unchanged models.Task
	require.NoError(t, env.db.First(&unchanged, task.ID).Error)
	require.Equal(t, env.column.ID, unchanged.ColumnID)
}

func TestTaskService_UpdateTask_ClearsOptionalFields(t *testing.T) {
	env := setupTaskTestEnv(t)

	due := time.Now().Add(48 * time.Hour)
	task, err := env.service.CreateTask(CreateTaskInput{
		Project:    env.project,
		ColumnID:   env.column.ID,
		PriorityID: env.priority.ID,
		Title:      "Con fecha",
		DueDate:    &due,
		AssigneeID: &env.user.ID,
		CreatorID:  env.user.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	require.NotNil(t, task.AssigneeID)

	updated, err := env.service.UpdateTask(task.ID, UpdateTaskInput{
		ClearDueDate:  true,
		ClearAssignee: true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Nil(t, updated.AssigneeID)
}

func TestTaskService_DeleteTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, "Borrar")

	require.NoError(t, env.service.DeleteTask(task.ID))
	require.ErrorIs(t, env.service.DeleteTask(task.ID), ErrTaskNotFound)
}
