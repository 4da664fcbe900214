package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

// RequireRoles admits authenticated callers whose role is in roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "Forbidden"))
			return
		}
		c.Next()
	}
}

// AdminOnly admits administrators.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// StudentOnly admits students.
func StudentOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleStudent)
}
