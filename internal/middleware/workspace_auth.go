package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/apierrors"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/models"
)

// RequireWorkspaceAccess gates a request on workspace membership: a missing
// workspace is NotFound, an existing workspace without a membership row for
// the actor is Forbidden.
func RequireWorkspaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		wsIDStr := c.Param("id")
		wsID, err := strconv.ParseUint(wsIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid workspace ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var ws models.Workspace
		if err := database.GetDB().First(&ws, wsID).Error; err != nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		member, ok := requireMembership(c, ws.ID, userID)
		if !ok {
			return
		}

		c.Set(constants.ContextKeyWorkspace, ws)
		c.Set(constants.ContextKeyWorkspaceMember, member)
		c.Next()
	}
}

// RequireWorkspaceOwner checks if the user is an owner of the workspace
func RequireWorkspaceOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get(constants.ContextKeyWorkspaceMember)
		if !exists {
			apierrors.Forbidden(c, "Workspace access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.WorkspaceMember)
		if !ok {
			apierrors.InternalError(c, "Invalid workspace member data")
			c.Abort()
			return
		}

		if member.Role != models.RoleOwner {
			apierrors.Forbidden(c, "Only workspace owners can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetWorkspace retrieves the workspace loaded by RequireWorkspaceAccess
func GetWorkspace(c *gin.Context) (models.Workspace, bool) {
	wsInterface, exists := c.Get(constants.ContextKeyWorkspace)
	if !exists {
		return models.Workspace{}, false
	}
	ws, ok := wsInterface.(models.Workspace)
	return ws, ok
}

// requireMembership looks up the actor's membership row and responds with
// Forbidden when absent. Returns the membership and whether to continue.
func requireMembership(c *gin.Context, workspaceID, userID uint64) (models.WorkspaceMember, bool) {
	var member models.WorkspaceMember
	err := database.GetDB().
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if err != nil {
		apierrors.Forbidden(c, "You are not a member of this workspace")
		c.Abort()
		return models.WorkspaceMember{}, false
	}
	return member, true
}
