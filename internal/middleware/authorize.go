package middleware

import (
	"github.com/gin-gonic/gin"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
)

// RequireRoles must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			WriteError(c, apperrors.Unauthenticated(msgAuthRequired))
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			WriteError(c, apperrors.Forbidden("Insufficient permissions"))
			return
		}

		c.Next()
	}
}
