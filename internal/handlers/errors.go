package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/middleware"
	"alumniconnect/internal/models"
)

// respondError logs failures that are not client errors before writing
// the shared error body.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("request failed")
	}
	middleware.WriteError(c, err)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
}

// currentUser must only be used behind middleware.Auth.
func currentUser(c *gin.Context) models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}
