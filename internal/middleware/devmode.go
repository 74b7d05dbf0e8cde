package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grimorio-eterno/grimorio-backend/internal/common"
)

// RequireDevMode gates admin CRUD routes: outside development mode they
// answer 403 and never reach the handler.
func RequireDevMode(isDevelopment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDevelopment {
			common.LegacyError(c, http.StatusForbidden,
				"Operações administrativas disponíveis apenas em modo de desenvolvimento")
			c.Abort()
			return
		}
		c.Next()
	}
}
