package middleware

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a panic into the standard 500 body. Broken client
// connections are left to gin, which aborts without writing.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error().
			Str("panic", fmt.Sprint(recovered)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("request_id", RequestIDFrom(c)).
			Msg("panic recovered")
		WriteError(c, fmt.Errorf("panic: %v", recovered))
	})
}
