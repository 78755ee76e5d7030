package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = 10 * 60

var (
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsAllowHeaders = strings.Join([]string{"Authorization", "Content-Type", requestIDHeader}, ", ")
)

// AllowOrigin reports whether a browser origin may call the API with
// credentials. An empty list allows every origin.
func AllowOrigin(allowed []string) func(origin string) bool {
	if len(allowed) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			set[origin] = struct{}{}
		}
	}
	return func(origin string) bool {
		_, ok := set[origin]
		return ok
	}
}

// CORS echoes allowed origins with credentials so the session cookie is sent
// cross-origin. Requests without an Origin header pass through untouched.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allow := AllowOrigin(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		header := c.Writer.Header()
		header.Add("Vary", "Origin")
		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""

		if !allow(origin) {
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Expose-Headers", requestIDHeader)

		if preflight {
			header.Add("Vary", "Access-Control-Request-Method")
			header.Add("Vary", "Access-Control-Request-Headers")
			header.Set("Access-Control-Allow-Methods", corsAllowMethods)
			header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			header.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
