package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/models"
)

// RequireProjectAccess resolves a project to its owning workspace and
// checks the actor's membership there.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		member, ok := requireMembership(c, project.WorkspaceID, userID)
		if !ok {
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Set(constants.ContextKeyWorkspaceMember, member)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	projectInterface, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := projectInterface.(models.Project)
	return project, ok
}

// RequireColumnAccess resolves a column through its project to the owning
// workspace and checks the actor's membership there.
func RequireColumnAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		columnIDStr := c.Param("id")
		columnID, err := strconv.ParseUint(columnIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid column ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var column models.TaskColumn
		if err := database.GetDB().First(&column, columnID).Error; err != nil {
			apierrors.NotFound(c, "Column not found")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, column.ProjectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		member, ok := requireMembership(c, project.WorkspaceID, userID)
		if !ok {
			return
		}

		c.Set(constants.ContextKeyColumn, column)
		c.Set(constants.ContextKeyProject, project)
		c.Set(constants.ContextKeyWorkspaceMember, member)
		c.Next()
	}
}

// GetColumn retrieves the column loaded by RequireColumnAccess
func GetColumn(c *gin.Context) (models.TaskColumn, bool) {
	columnInterface, exists := c.Get(constants.ContextKeyColumn)
	if !exists {
		return models.TaskColumn{}, false
	}
	column, ok := columnInterface.(models.TaskColumn)
	return column, ok
}
