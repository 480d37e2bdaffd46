package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/dto"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type workspaceTestEnv struct {
	db        *gorm.DB
	handler   *WorkspaceHandler
	wsService *services.WorkspaceService
}

func setupWorkspaceTestEnv(t *testing.T) workspaceTestEnv {
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
		&models.FinancialAccount{},
		&models.TransactionCategory{},
		&models.FinancialTransaction{},
		&models.Budget{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	wsRepo := repository.NewWorkspaceRepository(db)
	wsService := services.NewWorkspaceService(wsRepo)
	handler := NewWorkspaceHandler(wsService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return workspaceTestEnv{
		db:        db,
		handler:   handler,
		wsService: wsService,
	}
}

// stubAuth injects the user id the way RequireAuth would after reading the
// session.
func stubAuth(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func (env workspaceTestEnv) router(userID uint64) *gin.Engine {
	r := gin.New()
	workspaces := r.Group("/api/workspaces")
	workspaces.Use(stubAuth(userID))
	workspaces.POST("", env.handler.CreateWorkspace)
	workspaces.POST("/join", env.handler.JoinWorkspace)

	scoped := workspaces.Group("/:id")
	scoped.Use(middleware.RequireWorkspaceAccess())
	scoped.GET("", env.handler.GetWorkspace)
	scoped.PUT("", middleware.RequireWorkspaceOwner(), env.handler.UpdateWorkspace)
	scoped.DELETE("", middleware.RequireWorkspaceOwner(), env.handler.DeleteWorkspace)

	return r
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func createWorkspaceTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
		DisplayName:  "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func jsonRequest(t *testing.T, method, url string, payload interface{}) *http.Request {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestWorkspaceHandler_CreateWorkspace(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := createWorkspaceTestUser(t, env.db, "owner@example.com")
	r := env.router(owner.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/workspaces", map[string]string{
		"name": "Consorcio Edificio Norte",
	}))

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.WorkspaceDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Consorcio Edificio Norte", response.Name)
	require.NotEmpty(t, response.InviteCode)

	member, err := repository.NewWorkspaceRepository(env.db).FindMember(response.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, member.Role)
}

func TestWorkspaceHandler_GetWorkspace_NonMemberForbidden(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := createWorkspaceTestUser(t, env.db, "owner@example.com")
	stranger := createWorkspaceTestUser(t, env.db, "stranger@example.com")

	ws, err := env.wsService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:    "Privado",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	r := env.router(stranger.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/workspaces/"+itoa(ws.ID), nil))

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWorkspaceHandler_GetWorkspace_MissingIsNotFound(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	user := createWorkspaceTestUser(t, env.db, "user@example.com")

	r := env.router(user.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/workspaces/424242", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceHandler_UpdateWorkspace_MemberForbidden(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := createWorkspaceTestUser(t, env.db, "owner@example.com")
	member := createWorkspaceTestUser(t, env.db, "member@example.com")

	ws, err := env.wsService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:    "Compartido",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.wsService.JoinWorkspaceByInvite(member.ID, ws.InviteCode)
	require.NoError(t, err)

	r := env.router(member.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, "/api/workspaces/"+itoa(ws.ID), map[string]string{
		"name": "Renombrado",
	}))

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWorkspaceHandler_JoinWorkspace_InvalidCode(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	user := createWorkspaceTestUser(t, env.db, "user@example.com")

	r := env.router(user.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/workspaces/join", map[string]string{
		"invite_code": "XXXX-XXXX-XXXX",
	}))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceHandler_DeleteWorkspace_ThenUnreachable(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := createWorkspaceTestUser(t, env.db, "owner@example.com")

	ws, err := env.wsService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:    "Efímero",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	r := env.router(owner.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodDelete, "/api/workspaces/"+itoa(ws.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/workspaces/"+itoa(ws.ID), nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
