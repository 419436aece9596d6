package middlewares

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/models"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware enforces role-based access on routes under /api. The route
// key is "METHOD /full/path" using gin's route pattern, so ids do not break
// the lookup. RoleId 0 is the company admin and skips the path check.
func RoleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if _, ok := utils.GetUserIdFromContext(ctx); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		roleId, _ := utils.GetRoleIdFromContext(ctx)
		if roleId == 0 {
			c.Next()
			return
		}

		routeKey := c.Request.Method + " " + c.FullPath()

		if models.GetDefaultAllowedPaths()[routeKey] {
			c.Next()
			return
		}

		allowedPaths, err := models.GetAllowedPathsFromRole(ctx, roleId)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		if !allowedPaths[routeKey] {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
