package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
)

const (
	currentUserKey    = "current_user"
	currentSessionKey = "current_session"

	msgAuthRequired = "Authentication required"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token, ipAddress, userAgent string) (models.User, models.Session, error)
}

// Auth resolves the session cookie, or a bearer token for non-browser
// clients, and rejects the request when neither names a live session.
func Auth(cookieName string, auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		if token == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			WriteError(c, apperrors.Unauthenticated(msgAuthRequired))
			return
		}

		user, session, err := auth.Authenticate(c.Request.Context(), token, c.ClientIP(), c.GetHeader("User-Agent"))
		if err != nil {
			WriteError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(currentSessionKey, session)

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, exists := c.Get(currentSessionKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}
