package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alumniconnect/internal/apperrors"
)

const msgInternalError = "Internal server error"

// WriteError aborts with a {"message"} body. Client-facing kinds keep their
// message and status; anything else becomes a generic 500 and is attached
// to the context so the access log records it.
func WriteError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		c.AbortWithStatusJSON(appErr.Status(), gin.H{"message": appErr.Message})
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
}
