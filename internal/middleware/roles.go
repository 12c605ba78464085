package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
	"github.com/jmtenga/attendance-api/pkg/response"
)

// RequireRoles blocks requests whose session role is not in the allowed set.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
