package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/models"
)

// RequireTaskAccess resolves a task through its project to the owning
// workspace and checks the actor's membership there.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Column").
			Preload("Priority").
			Preload("Assignee").
			Preload("Tags").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, task.ProjectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		member, ok := requireMembership(c, project.WorkspaceID, userID)
		if !ok {
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Set(constants.ContextKeyProject, project)
		c.Set(constants.ContextKeyWorkspaceMember, member)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	taskInterface, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := taskInterface.(models.Task)
	return task, ok
}
