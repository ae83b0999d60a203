package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

// RequireRole admits only callers whose token carries exactly the given role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return RequireRoles(role)
}

// RequireRoles admits callers holding any of the given roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		switch claims.Role {
		case models.RoleStudent, models.RoleLecturer, models.RolePRL, models.RolePL:
		default:
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "unknown role"))
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "access denied for role "+string(claims.Role)))
			c.Abort()
			return
		}
		c.Next()
	}
}
