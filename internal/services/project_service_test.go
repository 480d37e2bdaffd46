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

type projectTestEnv struct {
	db      *gorm.DB
	service *ProjectService
	ws      *models.Workspace
	user    *models.User
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
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
	)
	require.NoError(t, err)

	user := &models.User{Email: "lead@example.com", PasswordHash: "hashed", DisplayName: "Lead"}
	require.NoError(t, db.Create(user).Error)

	ws := &models.Workspace{Name: "Project WS", InviteCode: "PRJ1-AAAA-BBBB"}
	require.NoError(t, db.Create(ws).Error)

	member := &models.WorkspaceMember{WorkspaceID: ws.ID, UserID: user.ID, Role: models.RoleOwner, JoinedAt: time.Now()}
	require.NoError(t, db.Create(member).Error)

	service := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewWorkspaceRepository(db),
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestEnv{
		db:      db,
		service: service,
		ws:      ws,
		user:    user,
	}
}

func TestProjectService_CreateProject_SeedsBoard(t *testing.T) {
	env := setupProjectTestEnv(t)

	project, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "Obra nueva",
	})
	require.NoError(t, err)

	require.Len(t, project.Columns, 4)
	require.Len(t, project.Priorities, 4)

	columnOrders := make([]int, len(project.Columns))
	for i, column := range project.Columns {
		columnOrders[i] = column.Order
	}
	require.ElementsMatch(t, []int{0, 1, 2, 3}, columnOrders)

	names := make([]string, len(project.Columns))
	for i, column := range project.Columns {
		names[i] = column.Name
	}
	require.ElementsMatch(t, []string{"pendiente", "en_progreso", "revision", "completada"}, names)

	labels := make([]string, len(project.Priorities))
	for i, priority := range project.Priorities {
		labels[i] = priority.Label
	}
	require.ElementsMatch(t, []string{"urgente", "alta", "media", "baja"}, labels)
}

func TestProjectService_CreateProject_RequiresMembership(t *testing.T) {
	env := setupProjectTestEnv(t)

	outsider := &models.User{Email: "outsider@example.com", PasswordHash: "hashed", DisplayName: "Outsider"}
	require.NoError(t, env.db.Create(outsider).Error)

	_, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     outsider.ID,
		Name:        "Ajena",
	})
	require.ErrorIs(t, err, ErrNotWorkspaceMember)
}

func TestProjectService_CreateProject_RequiresName(t *testing.T) {
	env := setupProjectTestEnv(t)

	_, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "  ",
	})
	require.ErrorIs(t, err, ErrInvalidProjectName)
}

func TestProjectService_DeleteProject_CascadesDependents(t *testing.T) {
	env := setupProjectTestEnv(t)

	project, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "Para borrar",
	})
	require.NoError(t, err)

	task := &models.Task{
		ProjectID:  project.ID,
		ColumnID:   project.Columns[0].ID,
		PriorityID: project.Priorities[0].ID,
		Title:      "Task",
		CreatorID:  env.user.ID,
	}
	require.NoError(t, env.db.Create(task).Error)

	tag := &models.Tag{Name: "obra"}
	require.NoError(t, env.db.Create(tag).Error)
	require.NoError(t, env.db.Model(task).Association("Tags").Append(tag))

	link := &models.ProjectLink{ProjectID: project.ID, Title: "Drive", URL: "https://example.com"}
	require.NoError(t, env.db.Create(link).Error)

	pm := &models.ProjectMember{ProjectID: project.ID, UserID: env.user.ID, RoleLabel: "Capataz", JoinedAt: time.Now()}
	require.NoError(t, env.db.Create(pm).Error)

	require.NoError(t, env.service.DeleteProject(project.ID))

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"tasks", &models.Task{}},
		{"columns", &models.TaskColumn{}},
		{"priorities", &models.PriorityLevel{}},
		{"links", &models.ProjectLink{}},
		{"members", &models.ProjectMember{}},
	} {
		var count int64
		require.NoError(t, env.db.Model(probe.model).
			Where("project_id = ?", project.ID).
			Count(&count).Error)
		require.Zero(t, count, "expected no %s left", probe.name)
	}

	var tagLinks int64
	require.NoError(t, env.db.Table("task_tags").
		Where("task_id = ?", task.ID).
		Count(&tagLinks).Error)
	require.Zero(t, tagLinks, "expected no tag links left for the deleted task")

	// The tag itself is global and survives
	require.NoError(t, env.db.First(&models.Tag{}, tag.ID).Error)

	require.ErrorIs(t, env.service.DeleteProject(project.ID), ErrProjectNotFound)
}

func TestProjectService_Links_AddAndRemove(t *testing.T) {
	env := setupProjectTestEnv(t)

	project, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "Con enlaces",
	})
	require.NoError(t, err)

	link, err := env.service.AddLink(project.ID, "Planos", "https://example.com/planos")
	require.NoError(t, err)
	require.NotZero(t, link.ID)

	require.NoError(t, env.service.RemoveLink(project.ID, link.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectLink{}).
		Where("project_id = ?", project.ID).
		Count(&count).Error)
	require.Zero(t, count)
}

func TestProjectService_RemoveLink_ScopedToProject(t *testing.T) {
	env := setupProjectTestEnv(t)

	first, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "Primero",
	})
	require.NoError(t, err)

	second, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "Segundo",
	})
	require.NoError(t, err)

	link, err := env.service.AddLink(first.ID, "Presupuesto", "https://example.com/presupuesto")
	require.NoError(t, err)

	require.ErrorIs(t, env.service.RemoveLink(second.ID, link.ID), ErrLinkNotFound)
	require.ErrorIs(t, env.service.RemoveLink(first.ID, link.ID+100), ErrLinkNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectLink{}).
		Where("id = ?", link.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProjectService_Members_RequireWorkspaceMembership(t *testing.T) {
	env := setupProjectTestEnv(t)

	project, err := env.service.CreateProject(CreateProjectInput{
		WorkspaceID: env.ws.ID,
		ActorID:     env.user.ID,
		Name:        "Con equipo",
	})
	require.NoError(t, err)

	outsider := &models.User{Email: "foreman@example.com", PasswordHash: "hashed", DisplayName: "Foreman"}
	require.NoError(t, env.db.Create(outsider).Error)

	_, err = env.service.AddMember(project, outsider.ID, "Capataz")
	require.ErrorIs(t, err, ErrNotWorkspaceMember)

	member := &models.WorkspaceMember{WorkspaceID: env.ws.ID, UserID: outsider.ID, Role: models.RoleMember, JoinedAt: time.Now()}
	require.NoError(t, env.db.Create(member).Error)

	pm, err := env.service.AddMember(project, outsider.ID, "Capataz")
	require.NoError(t, err)
	require.Equal(t, "Capataz", pm.RoleLabel)

	require.NoError(t, env.service.RemoveMember(project.ID, outsider.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, outsider.ID).
		Count(&count).Error)
	require.Zero(t, count)
}
