package middlewares

import (
	"context"
	"net/http"
	"strings"

	"bitbucket.org/artplim/erp_backend/models"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and loads its claims into the
// request context. Requests without an Authorization header pass through;
// protected routes reject them in RoleMiddleware.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := claimsContext(c.Request.Context(), auth, claims)
		if name, err := models.GetUserNameById(ctx, claims.ID); err == nil {
			ctx = utils.SetUserNameInContext(ctx, name)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// claimsContext loads token claims into the request context. Role 0 is a
// company admin, not a platform admin: the tenant-scope bypass flags are
// never granted from a bearer token, only by internal jobs.
func claimsContext(ctx context.Context, token string, claims *utils.JwtCustomClaim) context.Context {
	ctx = utils.SetTokenInContext(ctx, token)
	ctx = utils.SetUserIdInContext(ctx, claims.ID)
	ctx = utils.SetCompanyIdInContext(ctx, claims.CompanyId)
	return utils.SetRoleIdInContext(ctx, claims.RoleId)
}
